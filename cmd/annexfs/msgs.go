package annexfs

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Move files into an annex and leave links behind"
	MsgCreateShort       = "Create an empty annexed directory"
	MsgDeleteShort       = "Delete an annexed entry and its link"
	MsgTransferFromShort = "Move a file or directory into the annex"
	MsgTransferToShort   = "Move annexed content back out of the annex"
	MsgListShort         = "List the entries in the annex"
	MsgStatusShort       = "Show how annexfs sees a path"
	MsgStatusLong        = "Report whether a path is an annexfs link, a broken link, something annexfs does not own, or missing."
	MsgConfigShort       = "Print the effective configuration"
	MsgConfigLong        = "Print the configuration in effect after merging defaults, the config file, environment and flags, as TOML."
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"
	MsgCompletionLong    = "Generate a completion script for the given shell and write it to standard output."

	// Status messages
	MsgCreated       = "Created %s"
	MsgDeleted       = "Deleted %s"
	MsgTransferred   = "Moved %s into the annex"
	MsgRestored      = "Moved %s out of the annex"
	MsgConfigSource  = "# loaded from %s\n"
	MsgConfigNoFile  = "# no config file found, using defaults\n"
	MsgVersionFormat = "annexfs version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Process exit messages
	MsgInterrupted = "annexfs: program interrupted by user"
	MsgFatal       = "annexfs: a fatal error has occurred"
	MsgNonFatal    = "annexfs: a non-fatal error has occurred"
	MsgUsageError  = "Error: %v\nRun 'annexfs --help' for usage.\n"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default: $ANNEXFS_CONFIG or the XDG config directory)"
	MsgFlagRoot     = "Annex root directory (overrides ANNEXFS_ROOT and the config file)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/create-long.txt
	msgCreateLongRaw string
	MsgCreateLong    = strings.TrimSpace(msgCreateLongRaw)

	//go:embed msgs/delete-long.txt
	msgDeleteLongRaw string
	MsgDeleteLong    = strings.TrimSpace(msgDeleteLongRaw)

	//go:embed msgs/transfer-from-long.txt
	msgTransferFromLongRaw string
	MsgTransferFromLong    = strings.TrimSpace(msgTransferFromLongRaw)

	//go:embed msgs/transfer-to-long.txt
	msgTransferToLongRaw string
	MsgTransferToLong    = strings.TrimSpace(msgTransferToLongRaw)

	//go:embed msgs/list-long.txt
	msgListLongRaw string
	MsgListLong    = strings.TrimSpace(msgListLongRaw)

	//go:embed msgs/examples.txt
	msgExamplesRaw string
	MsgExamples    = strings.TrimRight(msgExamplesRaw, "\n")
)

package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() needs chain traversal for wrapped errors.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Bundle scanning
	// ===================
	{
		err: ErrBundleNotFound,
		info: ErrorInfo{
			Message: "The solution bundle directory could not be found.",
			Action:  "Unpack the solution zip and pass the unpacked directory to 'dsf generate'.",
		},
	},
	{
		err: ErrMalformedArtifact,
		info: ErrorInfo{
			Message: "A file in the solution bundle could not be parsed.",
			Action:  "Re-export and unpack the solution, then run 'dsf generate' again.",
		},
	},
	{
		err: ErrMissingArtifact,
		info: ErrorInfo{
			Message: "An expected file or directory is missing from the bundle.",
		},
	},
	{
		err: ErrInvalidOwnerEmail,
		info: ErrorInfo{
			Message: "The workflow owner email address is not valid.",
			Action:  "Use an address of the form name@domain, or pass --no-owner.",
		},
	},

	// ===================
	// Settings document
	// ===================
	{
		err: ErrSettingsNotFound,
		info: ErrorInfo{
			Message: "The deployment settings file does not exist.",
			Action:  "Run 'dsf generate' first or check the path.",
		},
	},
	{
		err: ErrSettingsCorrupted,
		info: ErrorInfo{
			Message: "The deployment settings file is not valid.",
			Action:  "Run 'dsf validate <file>' for details, or regenerate it with 'dsf generate'.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "The settings file is locked by another dsf process.",
			Action:  "Wait for the other process to finish and retry.",
		},
	},

	// ===================
	// Remote environment
	// ===================
	{
		err: ErrRemoteUnavailable,
		info: ErrorInfo{
			Message: "Could not query the target environment. The settings file was left unchanged for the failed stage.",
			Action:  "Check the environment URL, network access and the app registration's permissions.",
		},
	},
	{
		err: ErrMissingCredentials,
		info: ErrorInfo{
			Message: "No client secret was provided for the service principal.",
			Action:  "Export DSF_DATAVERSE_CLIENT_SECRET (or the variable named by dataverse.client_secret_env).",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigInvalidDataverse,
		info: ErrorInfo{
			Message: "The dataverse configuration is invalid.",
			Action:  "Run 'dsf config show' and fix the dataverse section or the --url/--tenant-id/--client-id flags.",
		},
	},
	{
		err: ErrConfigInvalidReconcile,
		info: ErrorInfo{
			Message: "The reconcile configuration is invalid.",
			Action:  "Valid policies are 'shared' or 'any'; valid empty-group behaviors are 'abort' or 'skip'.",
		},
	},
	{
		err: ErrConfigInvalidOutput,
		info: ErrorInfo{
			Message: "The output configuration is invalid.",
			Action:  "Set output.lock_timeout to a positive duration such as 5s.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},

	// ===================
	// Interaction
	// ===================
	{
		err: ErrMenuCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
	{
		err: ErrInteractiveRequired,
		info: ErrorInfo{
			Message: "This command needs an interactive terminal to ask for the workflow owner.",
			Action:  "Pass --owner <email> or --no-owner.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Direct sentinels hit the map; wrapped errors fall back to errors.Is().
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}

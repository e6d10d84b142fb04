// Package constants provides centralized constant values used throughout dsf.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Bundle layout names. These are fixed by the solution packager.
const (
	// EnvironmentVariableDefinitionsDir holds one subdirectory per environment
	// variable definition; the subdirectory name is the schema name.
	EnvironmentVariableDefinitionsDir = "environmentvariabledefinitions"

	// CustomizationsFileName is the solution customizations document that
	// carries connection reference definitions.
	CustomizationsFileName = "customizations.xml"

	// WorkflowsDir is the directory directly under the bundle root holding
	// cloud flow definitions.
	WorkflowsDir = "Workflows"

	// WorkflowFilePattern selects workflow definition files inside WorkflowsDir.
	WorkflowFilePattern = "*.json"
)

// customizations.xml element and attribute names.
const (
	// XMLConnectionReferences is the container element for connection references.
	XMLConnectionReferences = "connectionreferences"

	// XMLLogicalNameAttr is the attribute carrying a connection reference's logical name.
	XMLLogicalNameAttr = "connectionreferencelogicalname"

	// XMLConnectorID is the child element carrying the fully-qualified connector id.
	XMLConnectorID = "connectorid"
)

// Settings document values.
const (
	// WorkflowComponentType is the solution component type code for workflows.
	WorkflowComponentType = 29

	// ComponentUniqueNameLength is the length of a component GUID in a workflow file name.
	ComponentUniqueNameLength = 36

	// ConnectionNotFound is written to a connection reference whose connector
	// exists in the environment but has no usable connection.
	ConnectionNotFound = "None found"

	// SettingsFileSuffix is appended to the bundle name to form the default
	// output file name (e.g. MySolution_deploymentSettings.json).
	SettingsFileSuffix = "_deploymentSettings.json"

	// SettingsIndent is the JSON indent used when writing settings documents.
	SettingsIndent = "  "
)

// Directory names and paths used by dsf for its own data.
const (
	// DSFHome is the hidden directory name where dsf stores config and logs.
	DSFHome = ".dsf"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LocksDir is the directory name where settings lock files are kept.
	LocksDir = "locks"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size of a log file before rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated log file.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Timeouts.
const (
	// DefaultRemoteTimeout bounds a single HTTP request to the remote environment.
	DefaultRemoteTimeout = 2 * time.Minute

	// LockTimeout is the maximum duration to wait for a settings file lock.
	LockTimeout = 5 * time.Second

	// LockRetryInterval is the delay between lock attempts.
	LockRetryInterval = 50 * time.Millisecond
)

// Dataverse defaults.
const (
	// DefaultAuthority is the Microsoft identity platform host.
	DefaultAuthority = "https://login.microsoftonline.com"

	// DefaultAPIVersion is the Dataverse Web API version used for queries.
	DefaultAPIVersion = "v9.2"

	// DefaultClientSecretEnv names the environment variable holding the client secret.
	DefaultClientSecretEnv = "DSF_DATAVERSE_CLIENT_SECRET" //nolint:gosec // Not a credential, just env var name

	// VariableFilterBatchSize is the number of schema names per OData $filter.
	VariableFilterBatchSize = 20

	// VariableFetchConcurrency bounds concurrent variable batch requests.
	VariableFetchConcurrency = 4
)

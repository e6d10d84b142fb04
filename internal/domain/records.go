package domain

// ConnectorRecord is one connection reference instance read from the target
// environment. Records are fetched, never owned or modified.
type ConnectorRecord struct {
	// ConnectorID is the fully-qualified connector id of the instance.
	ConnectorID string `json:"connectorid"`

	// ConnectionID is the concrete connection bound to the instance.
	// Personal connections carry hyphenated ids; shared ones do not.
	ConnectionID string `json:"connectionid"`
}

// VariableValueRecord is one environment variable value read from the target environment.
type VariableValueRecord struct {
	SchemaName string `json:"schemaname"`
	Value      string `json:"value"`
}

// Package domain provides shared domain types for dsf settings documents and
// the remote records they are reconciled against.
package domain

// EnvironmentVariable is a settings slot for one environment variable definition.
//
// Example JSON representation:
//
//	{
//	    "SchemaName": "cr8a3_ApiBaseUrl",
//	    "Value": ""
//	}
type EnvironmentVariable struct {
	// SchemaName is the variable's schema name (the definition directory name).
	SchemaName string `json:"SchemaName"`

	// Value starts empty and is only filled by the variable resolver.
	Value string `json:"Value"`
}

// Key returns the slot's stable identity.
func (v EnvironmentVariable) Key() string {
	return v.SchemaName
}

// ConnectionReference is a settings slot for one connection reference.
// LogicalName and ConnectorID are optional: the bundle may omit either, and an
// absent field is written back as absent rather than as an empty string.
//
// Example JSON representation:
//
//	{
//	    "LogicalName": "cr8a3_sharedcommondataserviceforapps_4f2c1",
//	    "ConnectionId": "",
//	    "ConnectorId": "/providers/Microsoft.PowerApps/apis/shared_commondataserviceforapps"
//	}
type ConnectionReference struct {
	LogicalName  *string `json:"LogicalName,omitempty"`
	ConnectionID string  `json:"ConnectionId"`
	ConnectorID  *string `json:"ConnectorId,omitempty"`
}

// Key returns the slot's stable identity (empty when the logical name is absent).
func (c ConnectionReference) Key() string {
	if c.LogicalName == nil {
		return ""
	}
	return *c.LogicalName
}

// Connector returns the fully-qualified connector id, or "" when absent.
func (c ConnectionReference) Connector() string {
	if c.ConnectorID == nil {
		return ""
	}
	return *c.ConnectorID
}

// WorkflowOwnership is a settings slot assigning an owner to a workflow component.
// It is built once at scan time and never mutated afterward.
//
// Example JSON representation:
//
//	{
//	    "solutionComponentType": 29,
//	    "solutionComponentUniqueName": "550e8400-e29b-41d4-a716-446655440000",
//	    "ownerEmail": null
//	}
type WorkflowOwnership struct {
	ComponentType       int     `json:"solutionComponentType"`
	ComponentUniqueName string  `json:"solutionComponentUniqueName"`
	OwnerEmail          *string `json:"ownerEmail"`
}

// Key returns the slot's stable identity.
func (w WorkflowOwnership) Key() string {
	return w.ComponentUniqueName
}

// StringPtr returns a pointer to s. Used for optional slot fields.
func StringPtr(s string) *string {
	return &s
}

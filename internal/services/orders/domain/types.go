// Package domain defines the inputs and ports of the order client
package domain

// SignInput starts a signing order
// PersonalNumber is passed through as given
// EndUserIP overrides the client's configured default for this call
type SignInput struct {
	PersonalNumber  string `json:"personalNumber"`
	EndUserIP       string `json:"endUserIp" validate:"omitempty,ip"`
	UserVisibleData string `json:"userVisibleData" validate:"required,max=40000"`
	UserHiddenData  string `json:"userHiddenData" validate:"max=200000"`
}

// AuthInput starts an authentication order
// PersonalNumber may be empty for app-initiated sessions
type AuthInput struct {
	PersonalNumber string `json:"personalNumber"`
	EndUserIP      string `json:"endUserIp" validate:"omitempty,ip"`
}

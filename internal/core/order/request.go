package order

// SignRequest is a sign call as handed to a protocol adapter
// Text fields are plain; adapters apply their own encoding
type SignRequest struct {
	PersonalNumber  string
	EndUserIP       string
	UserVisibleData string
	UserHiddenData  string
}

// AuthRequest is an auth call as handed to a protocol adapter
// PersonalNumber may be empty for app-initiated sessions
type AuthRequest struct {
	PersonalNumber string
	EndUserIP      string
}

package contact

// ContactRequest represents a contact form submission after trimming
type ContactRequest struct {
	Name    string `json:"name" binding:"min=2,max=100"`
	Email   string `json:"email" binding:"email,max=255"`
	Message string `json:"message" binding:"min=10,max=1000"`
}

// ErrorResponse is the flat error body of the contact endpoint
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Response messages returned to the form
const (
	MessageRateLimited  = "Too many requests. Please try again later."
	MessageInvalidInput = "Invalid input data"
	MessageDispatch     = "Failed to send confirmation email. Please try again later."
	MessageUnexpected   = "Something went wrong while processing your message."
)

package health

// Output represents the output for the liveness endpoint
type Output struct {
	Body Response
}

// Response is sent as is, without the success envelope.
type Response struct {
	Status    string `json:"status" example:"ok" doc:"Health status of the service"`
	Timestamp string `json:"timestamp" example:"2024-06-01T12:00:00.000Z" doc:"Server time, UTC"`
}

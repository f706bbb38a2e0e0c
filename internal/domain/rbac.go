package domain

type EnforceRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Role     Role   `json:"-"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

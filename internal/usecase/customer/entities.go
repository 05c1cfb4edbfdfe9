package customer

type Input struct {
	Name         string `json:"name" validate:"required,max=200"`
	Mobile       string `json:"mobile" validate:"max=20"`
	Address      string `json:"address" validate:"max=500"`
	GovernmentID string `json:"governmentId" validate:"max=50"`
}

package request

// Register is the body for POST /api/v1/auth/register
type Register struct {
	Username string `json:"username"`
}

// Login is the body for POST /api/v1/auth/login
type Login struct {
	Username string `json:"username"`
}

// SelectNumber is the body for POST /api/v1/game/select-number
type SelectNumber struct {
	Number int `json:"number"`
}

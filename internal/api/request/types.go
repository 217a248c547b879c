package request

// SignUpRequest is the body for POST /auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInRequest is the body for POST /auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body for POST /auth/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangeUsernameRequest is the body for POST /auth/username.
type ChangeUsernameRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DeleteAccountRequest is the body for DELETE /auth/account.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// SaveAvatarRequest is the body for PUT /auth/avatar.
type SaveAvatarRequest struct {
	Image string `json:"image"`
}

// CreateRoundRequest is the body for POST /rounds.
type CreateRoundRequest struct {
	CourseID    string `json:"course_id"`
	Tee         string `json:"tee"`
	TeeLabel    string `json:"tee_label"`
	Date        string `json:"date"`
	Code        string `json:"code,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// JoinRoundRequest is the body for POST /rounds/{code}/join.
type JoinRoundRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

// ScoreRequest is the body for PATCH /rounds/{code}/score.
type ScoreRequest struct {
	Hole    int `json:"hole"`
	Strokes int `json:"strokes"`
}

// TrackingRequest is the body for PATCH /rounds/{code}/tracking.
type TrackingRequest struct {
	Type  string `json:"type"`
	Hole  int    `json:"hole"`
	Value any    `json:"value"`
}

// CurrentHoleRequest is the body for PATCH /rounds/{code}/current-hole.
type CurrentHoleRequest struct {
	Hole int `json:"hole"`
}

// SubmitTicketRequest is the body for POST /support/tickets.
type SubmitTicketRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Page        string `json:"page,omitempty"`
}

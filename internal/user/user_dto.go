package user

type UserResponse struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	ManagerID       *string `json:"manager_id,omitempty"`
	ManagerUsername *string `json:"manager_username,omitempty"`
}

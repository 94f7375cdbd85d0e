package request

type RoleRequest struct {
	Name string `json:"name" validate:"required,oneof=admin user"`
}

type CreateUserRequest struct {
	Fullname    string        `json:"fullname" validate:"required"`
	Username    string        `json:"username" validate:"required,contains=@"`
	PhoneNumber *string       `json:"phone_number" validate:"omitempty,len=10,number"`
	Password    string        `json:"password" validate:"required,max=72"`
	Status      string        `json:"status" validate:"omitempty,oneof=active pending deactivate"`
	Roles       []RoleRequest `json:"roles" validate:"omitempty,unique=Name,dive"`
}

type UpdateStatusRequest struct {
	Username string `json:"username" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=active pending deactivate"`
}

// ProfileQuery selects a user by ID when ID > 0, otherwise by Username.
type ProfileQuery struct {
	ID       int64
	Username string
}

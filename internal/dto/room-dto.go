package dto

type CreateRoomDTO struct {
	Name     string  `json:"name" validate:"required,min=2,max=255"`
	Capacity int     `json:"capacity" validate:"required,gt=0"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

type UpdateRoomDTO struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

type RoomResponseDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	Location  *string `json:"location,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

package dto

type AddParticipantsDTO struct {
	UserIDs []uint64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

type RSVPDTO struct {
	Status string `json:"status" validate:"required,rsvp_status"`
}

type AdjustmentNoteDTO struct {
	Note string `json:"note" validate:"required,max=1000"`
}

type ParticipantResponseDTO struct {
	ID             uint64       `json:"id"`
	EventID        uint64       `json:"event_id"`
	User           ShortUserDTO `json:"user"`
	Status         string       `json:"status"`
	AdjustmentNote *string      `json:"adjustment_note,omitempty"`
}

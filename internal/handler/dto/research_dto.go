package dto

import "github.com/yourusername/easynatorics-api/internal/domain/entity"

// ResearcherLoginRequest - пароль исследователя
type ResearcherLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// ParticipantDetailResponse - полная запись и журнал попыток
type ParticipantDetailResponse struct {
	Record   *entity.ParticipantRecord `json:"record"`
	Attempts []entity.AttemptEvent     `json:"attempts"`
}

package consumer

import "pumpstream/internal/domain"

// TokenCreated is the token:created payload: the persisted token plus its
// current all-time high when one exists.
type TokenCreated struct {
	Token *domain.TokenRecord `json:"token"`
	ATH   *domain.ATHRecord   `json:"ath,omitempty"`
}

// TokenGraduated is the token:graduated payload: the decoded graduation
// event plus the stored token snapshot it applied to.
type TokenGraduated struct {
	GraduationEvent *domain.GraduationEvent `json:"graduationEvent"`
	TokenData       *domain.TokenRecord     `json:"tokenData"`
}

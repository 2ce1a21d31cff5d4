package postgres

import (
	"youthPolicyHub/business/ingestion"
	"youthPolicyHub/business/policy"
)

var (
	_ policy.PolicyRepository      = (*PolicyRepository)(nil)
	_ ingestion.PolicyRepository   = (*PolicyRepository)(nil)
	_ policy.FavoriteRepository    = (*FavoritePolicyRepository)(nil)
	_ policy.ViewRepository        = (*ViewPolicyRepository)(nil)
	_ policy.InteractionRepository = (*UserInteractionRepository)(nil)
	_ policy.UserRepository        = (*UserRepository)(nil)
)

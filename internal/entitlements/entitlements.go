// Package entitlements maps a caller class to its static usage policy.
package entitlements

import (
	"relaychat/api/internal/config"
	"relaychat/api/internal/models"
)

// Entitlements is the immutable policy for one caller class.
type Entitlements struct {
	MaxMessagesPerDay int
	AllowedModelIDs   []string
}

// Resolver is a pure lookup built once from configuration. No I/O, no
// mutation after construction.
type Resolver struct {
	byClass map[models.UserClass]Entitlements
	models  []models.ChatModel
}

func NewResolver(cfg config.EntitlementsConfig, catalog []config.ModelConfig) *Resolver {
	chatModels := make([]models.ChatModel, 0, len(catalog))
	for _, m := range catalog {
		chatModels = append(chatModels, models.ChatModel{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
		})
	}

	return &Resolver{
		byClass: map[models.UserClass]Entitlements{
			models.UserClassGuest: {
				MaxMessagesPerDay: cfg.Guest.MaxMessagesPerDay,
				AllowedModelIDs:   cfg.Guest.AllowedModelIDs,
			},
			models.UserClassRegular: {
				MaxMessagesPerDay: cfg.Regular.MaxMessagesPerDay,
				AllowedModelIDs:   cfg.Regular.AllowedModelIDs,
			},
		},
		models: chatModels,
	}
}

// Resolve returns the policy for the class. The class enumeration is closed;
// anything unrecognized gets the guest policy, the most restrictive one.
func (r *Resolver) Resolve(class models.UserClass) Entitlements {
	if ent, ok := r.byClass[class]; ok {
		return ent
	}
	return r.byClass[models.UserClassGuest]
}

// Allows reports whether the class may dispatch to the given model. This is
// the check the API boundary applies before any AI call; hiding a model in
// the picker is not enforcement.
func (r *Resolver) Allows(class models.UserClass, modelID string) bool {
	for _, id := range r.Resolve(class).AllowedModelIDs {
		if id == modelID {
			return true
		}
	}
	return false
}

// ModelsFor returns the catalog entries the class may use, in catalog order.
func (r *Resolver) ModelsFor(class models.UserClass) []models.ChatModel {
	allowed := make([]models.ChatModel, 0, len(r.models))
	for _, m := range r.models {
		if r.Allows(class, m.ID) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

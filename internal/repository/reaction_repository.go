package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sakilalakmal/nexus-app/internal/models"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Toggle performs insert-if-absent-else-delete on the unique
// (message, user, emoji) row and re-reads the message's raw rows, all inside
// one transaction. The aggregate is always recomputed from rows, never
// updated in place.
func (r *ReactionRepository) Toggle(reaction *models.MessageReaction) ([]models.MessageReaction, error) {
	var rows []models.MessageReaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
			DoNothing: true,
		}).Create(reaction)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Already present: the toggle removes it.
			if err := tx.
				Where("message_id = ? AND user_id = ? AND emoji = ?",
					reaction.MessageID, reaction.UserID, reaction.Emoji).
				Delete(&models.MessageReaction{}).Error; err != nil {
				return err
			}
		}

		return tx.
			Where("message_id = ?", reaction.MessageID).
			Order("created_at ASC").
			Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReactionRepository) ListForMessage(messageID string) ([]models.MessageReaction, error) {
	var rows []models.MessageReaction
	err := r.db.
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

package service

import (
	"errors"
	"fmt"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/dto"
	"cloudriddle/internal/model"
	"cloudriddle/internal/service/ai"
)

// ErrHistoryDisabled is returned when no riddle database is configured.
var ErrHistoryDisabled = errors.New("riddle history disabled")

// History returns one page of recorded riddles, newest first.
func (m *Manager) History(filter *dto.RiddleFilters, page int) (*dto.RiddlesData, error) {
	if m.riddleRepo == nil {
		return nil, ErrHistoryDisabled
	}
	if filter.Limit <= 0 {
		filter.Limit = 24
	}
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * filter.Limit

	riddles, err := m.riddleRepo.GetAll(filter)
	if err != nil {
		return nil, err
	}

	totalCount, err := m.riddleRepo.GetTotalCount(filter)
	if err != nil {
		m.logger.Error("Error counting riddles: %v", err)
		totalCount = len(riddles)
	}

	infos := make([]dto.RiddleInfo, 0, len(riddles))
	for _, r := range riddles {
		info := dto.RiddleInfo{
			ID:           r.ID,
			PhotoName:    r.PhotoName,
			CapturedAt:   r.CapturedAt,
			Guess:        r.Guess,
			CreatedAt:    r.CreatedAt,
			Similarities: []dto.SimilarityView{},
		}
		if m.similarityRepo != nil {
			sims, err := m.similarityRepo.GetByRiddleID(r.ID)
			if err != nil {
				m.logger.Error("Error getting answers for riddle %d: %v", r.ID, err)
			}
			for _, s := range sims {
				info.Similarities = append(info.Similarities, dto.SimilarityView{
					Rank:       s.Rank,
					Label:      s.Label,
					Confidence: s.Confidence,
					Emoji:      ai.Emoji(s.Label),
				})
			}
		}
		infos = append(infos, info)
	}

	labels := []string{}
	if m.similarityRepo != nil {
		if all, err := m.similarityRepo.GetAllLabels(); err != nil {
			m.logger.Error("Error listing labels: %v", err)
		} else if all != nil {
			labels = all
		}
	}

	return &dto.RiddlesData{
		Riddles:     infos,
		Labels:      labels,
		Length:      totalCount,
		TotalPages:  (totalCount + filter.Limit - 1) / filter.Limit,
		CurrentPage: page,
		Limit:       filter.Limit,
	}, nil
}

// HistoryStats returns the riddle count and how often each label ranked first.
func (m *Manager) HistoryStats() (*model.RiddleStats, error) {
	if m.riddleRepo == nil {
		return nil, ErrHistoryDisabled
	}
	return m.riddleRepo.GetStats()
}

// DeleteRiddle removes one recorded riddle.
func (m *Manager) DeleteRiddle(id int64) error {
	if m.riddleRepo == nil {
		return ErrHistoryDisabled
	}
	riddle, err := m.riddleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if riddle == nil {
		return fmt.Errorf("%w: riddle %d", blob.ErrNotFound, id)
	}
	if err := m.riddleRepo.Delete(id); err != nil {
		return err
	}
	m.logger.Info("Deleted riddle %d (%s)", id, riddle.PhotoName)
	return nil
}

// ClearHistory removes every recorded riddle.
func (m *Manager) ClearHistory() error {
	if m.riddleRepo == nil {
		return ErrHistoryDisabled
	}
	if err := m.riddleRepo.DeleteAll(); err != nil {
		return err
	}
	m.logger.Info("Riddle history cleared")
	return nil
}

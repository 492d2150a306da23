package db

import (
	"context"
	"database/sql"
	"fmt"

	"proxyprofile/internal/logger"
	"proxyprofile/internal/model"
	"proxyprofile/internal/profile"

	"gorm.io/gorm"
)

// Store is the profile collection backed by the proxy_entities table.
// Every method is a single statement or a single transaction.
type Store struct {
	db           *gorm.DB
	defaultOrder int64
}

// NewStore wraps db. defaultOrder is what NextOrder reports for an empty group.
func NewStore(db *gorm.DB, defaultOrder int64) *Store {
	return &Store{db: db, defaultOrder: defaultOrder}
}

// ByGroup returns the group's profiles ordered by user order.
func (s *Store) ByGroup(ctx context.Context, groupID int64) ([]*profile.Profile, error) {
	var rows []model.ProxyEntity
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("user_order, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list group %d: %w", groupID, err)
	}
	return fromEntities(rows)
}

func (s *Store) IDsByGroup(ctx context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.ProxyEntity{}).
		Where("group_id = ?", groupID).
		Order("user_order, id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list ids of group %d: %w", groupID, err)
	}
	return ids, nil
}

// ByIDs fetches the given profiles in no particular order. Unknown ids are skipped.
func (s *Store) ByIDs(ctx context.Context, ids []int64) ([]*profile.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []model.ProxyEntity
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	return fromEntities(rows)
}

func (s *Store) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.ProxyEntity{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// NextOrder is max(user_order)+1 within the group, or the configured default.
func (s *Store) NextOrder(ctx context.Context, groupID int64) (int64, error) {
	var next sql.NullInt64
	row := s.db.WithContext(ctx).
		Model(&model.ProxyEntity{}).
		Select("MAX(user_order) + 1").
		Where("group_id = ?", groupID).
		Row()
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("next order of group %d: %w", groupID, err)
	}
	if !next.Valid {
		return s.defaultOrder, nil
	}
	return next.Int64, nil
}

// GetProfile returns the profile or an error wrapping profile.ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, id int64) (*profile.Profile, error) {
	var row model.ProxyEntity
	res := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("profile %d: %w", id, profile.ErrNotFound)
	}
	return fromEntity(row)
}

// Add inserts an unsaved profile and assigns its id.
func (s *Store) Add(ctx context.Context, p *profile.Profile) error {
	if p.ID != 0 {
		return fmt.Errorf("%w: profile %d is already stored", profile.ErrInvalidArgument, p.ID)
	}
	row, err := toEntity(p)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID = row.ID
	p.Dirty = false
	logger.Log.Debugf("Stored %s profile %d in group %d", p.Type(), p.ID, p.GroupID)
	return nil
}

// Update replaces every stored field of p, keeping its id.
func (s *Store) Update(ctx context.Context, p *profile.Profile) error {
	return update(s.db.WithContext(ctx), p)
}

// UpdateProxies updates several profiles in one transaction.
func (s *Store) UpdateProxies(ctx context.Context, ps ...*profile.Profile) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range ps {
			if err := update(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ps), nil
}

func update(tx *gorm.DB, p *profile.Profile) error {
	row, err := toEntity(p)
	if err != nil {
		return err
	}
	res := tx.Model(&model.ProxyEntity{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"group_id":   row.GroupID,
			"type":       row.Type,
			"user_order": row.UserOrder,
			"tx":         row.Tx,
			"rx":         row.Rx,
			"bean":       row.Bean,
		})
	if res.Error != nil {
		return fmt.Errorf("update profile %d: %w", row.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile %d: %w", row.ID, profile.ErrNotFound)
	}
	p.Dirty = false
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	return s.DeleteByIDs(ctx, []int64{id})
}

func (s *Store) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ProxyEntity{})
	return res.RowsAffected, res.Error
}

// DeleteProxies removes the given records by id.
func (s *Store) DeleteProxies(ctx context.Context, ps ...*profile.Profile) (int64, error) {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return s.DeleteByIDs(ctx, ids)
}

// DeleteByGroup removes every profile of the given groups.
func (s *Store) DeleteByGroup(ctx context.Context, groupIDs ...int64) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("group_id IN ?", groupIDs).Delete(&model.ProxyEntity{})
	return res.RowsAffected, res.Error
}

// DeleteAll clears one group and reports how many rows went away.
func (s *Store) DeleteAll(ctx context.Context, groupID int64) (int64, error) {
	return s.DeleteByGroup(ctx, groupID)
}

func toEntity(p *profile.Profile) (model.ProxyEntity, error) {
	payload, err := p.EncodeBean()
	if err != nil {
		return model.ProxyEntity{}, err
	}
	return model.ProxyEntity{
		ID:        p.ID,
		GroupID:   p.GroupID,
		Type:      int32(p.Type()),
		UserOrder: p.UserOrder,
		Tx:        p.Tx,
		Rx:        p.Rx,
		Bean:      payload,
	}, nil
}

func fromEntity(row model.ProxyEntity) (*profile.Profile, error) {
	kind, err := profile.ParseKind(row.Type)
	if err != nil {
		return nil, fmt.Errorf("profile %d: %w", row.ID, err)
	}
	bean, err := profile.DecodeBean(row.Bean, kind)
	if err != nil {
		return nil, fmt.Errorf("profile %d: %w", row.ID, err)
	}
	p := &profile.Profile{
		ID:        row.ID,
		GroupID:   row.GroupID,
		UserOrder: row.UserOrder,
		Tx:        row.Tx,
		Rx:        row.Rx,
	}
	p.SetBean(bean)
	return p, nil
}

func fromEntities(rows []model.ProxyEntity) ([]*profile.Profile, error) {
	out := make([]*profile.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := fromEntity(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

package dao

import (
	"context"
	"errors"

	"Pharmetix/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo 单表通用读写，业务 DAO 内嵌使用
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Conn returns tx when the caller is inside a transaction, otherwise the shared handle.
func (r *Repo[T]) Conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.Db.WithContext(ctx)
}

func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Db.WithContext(ctx).Model(new(T))
}

func (r *Repo[T]) FindById(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindForUpdate 行锁读取，只在事务内有意义
func (r *Repo[T]) FindForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*T, error) {
	var item T
	err := r.Conn(ctx, tx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).Where(where, args...).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) FindCount(ctx context.Context, where string, args ...any) (int64, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Count(&count).Error
	return count, err
}

func (r *Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var item T
	err := r.Db.WithContext(ctx).Select("id").Where(where, args...).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo[T]) Create(ctx context.Context, tx *gorm.DB, item *T) error {
	return r.Conn(ctx, tx).Create(item).Error
}

func (r *Repo[T]) UpdateById(ctx context.Context, tx *gorm.DB, id int64, data map[string]any) (int64, error) {
	res := r.Conn(ctx, tx).Model(new(T)).Where("id = ?", id).Updates(data)
	return res.RowsAffected, res.Error
}

// Page 列表查询：先 count 再按排序取当前页，preloads 只作用于取数据
func (r *Repo[T]) Page(ctx context.Context, db *gorm.DB, q types.PageQuery, sorts SortColumns, fallback string, preloads ...string) ([]*T, int64, error) {
	var (
		total int64
		items = make([]*T, 0)
	)
	q = q.Normalize()
	db = db.WithContext(ctx).Model(new(T)).Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return items, 0, nil
	}
	find := sorts.OrderBy(db, q, fallback)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Offset(q.Offset()).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

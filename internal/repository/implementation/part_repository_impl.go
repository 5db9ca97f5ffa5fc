package implementation

import (
	"context"
	"errors"

	"pc-autobuild-be/internal/mapper"
	"pc-autobuild-be/internal/model"
	"pc-autobuild-be/internal/repository/contract"
	"pc-autobuild-be/internal/repository/specification"
	"pc-autobuild-be/pkg/autobuild"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartRepositoryImpl struct {
	db      *gorm.DB
	mapper  *mapper.PartMapper
	minRank float64
	limit   int
}

// NewPartRepository builds the graph store. minRank is the full-text relevance
// a name match must reach; limit caps range queries (0 means unlimited).
func NewPartRepository(db *gorm.DB, minRank float64, limit int) contract.PartRepository {
	return &PartRepositoryImpl{
		db:      db,
		mapper:  mapper.NewPartMapper(),
		minRank: minRank,
		limit:   limit,
	}
}

func (r *PartRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PartRepositoryImpl) FindBestMatch(ctx context.Context, category autobuild.Category, text string, byChipset bool) (*autobuild.Part, error) {
	var m model.Part
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByCategory{Category: category},
		specification.PartTextMatch{Query: text, ByChipset: byChipset, MinRank: r.minRank},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	part, err := r.mapper.ToDomain(&m)
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *PartRepositoryImpl) FindWithinBudget(ctx context.Context, category autobuild.Category, ceiling int64, objective autobuild.Objective) ([]autobuild.Part, error) {
	var models []*model.Part
	specs := []specification.Specification{
		specification.ByCategory{Category: category},
		specification.PriceAtMost{Ceiling: ceiling},
		specification.OrderByObjective{Objective: objective},
	}
	if r.limit > 0 {
		specs = append(specs, specification.Pagination{Limit: r.limit})
	}
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToDomains(models)
}

func (r *PartRepositoryImpl) HasEdge(ctx context.Context, from, to autobuild.PartKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CompatibilityEdge{}).
		Where("relation = ?", autobuild.RelationCompatibleWith).
		Where("from_category = ? AND from_name = ?", from.Category.String(), from.Name).
		Where("to_category = ? AND to_name = ?", to.Category.String(), to.Name).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PartRepositoryImpl) Upsert(ctx context.Context, part autobuild.Part) error {
	m, err := r.mapper.ToModel(part)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "benchmark_score", "sales_volume", "chipset", "specs", "updated_at"}),
	}).Create(m).Error
}

func (r *PartRepositoryImpl) Connect(ctx context.Context, from, to autobuild.PartKey) error {
	edge := &model.CompatibilityEdge{
		Relation:     autobuild.RelationCompatibleWith,
		FromCategory: from.Category.String(),
		FromName:     from.Name,
		ToCategory:   to.Category.String(),
		ToName:       to.Name,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge).Error
}

func (r *PartRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Part{}).Count(&count).Error
	return count, err
}

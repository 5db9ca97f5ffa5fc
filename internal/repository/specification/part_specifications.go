package specification

import (
	"pc-autobuild-be/pkg/autobuild"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByCategory filters parts of one category.
type ByCategory struct {
	Category autobuild.Category
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category.String())
}

// PriceAtMost keeps priced parts at or below the ceiling.
type PriceAtMost struct {
	Ceiling int64
}

func (s PriceAtMost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price > 0 AND price <= ?", s.Ceiling)
}

// OrderByObjective sorts a range query: price ascending, benchmark or sales
// descending. Name breaks ties so pools are stable.
type OrderByObjective struct {
	Objective autobuild.Objective
}

func (s OrderByObjective) Apply(db *gorm.DB) *gorm.DB {
	switch s.Objective {
	case autobuild.ObjectiveBenchmark:
		db = db.Order("benchmark_score DESC")
	case autobuild.ObjectiveSales:
		db = db.Order("sales_volume DESC")
	default:
		db = db.Order("price ASC")
	}
	return db.Order("name ASC")
}

// PartTextMatch ranks parts by full-text relevance of the name (or chipset)
// against the query and drops those below MinRank.
type PartTextMatch struct {
	Query     string
	ByChipset bool
	MinRank   float64
}

func (s PartTextMatch) Apply(db *gorm.DB) *gorm.DB {
	column := "name"
	if s.ByChipset {
		column = "coalesce(chipset, '')"
	}
	doc := "to_tsvector('simple', " + column + ")"
	query := "plainto_tsquery('simple', ?)"

	return db.
		Where("price > 0").
		Where(doc+" @@ "+query, s.Query).
		Where("ts_rank("+doc+", "+query+") >= ?", s.Query, s.MinRank).
		Clauses(rankOrder(doc, query, s.Query))
}

// rankOrder puts the most relevant part first and prefers the shortest name
// among equals, so a base model wins over its variants.
func rankOrder(doc, query, text string) clause.OrderBy {
	return clause.OrderBy{
		Expression: clause.Expr{
			SQL:                "ts_rank(" + doc + ", " + query + ") DESC, length(name) ASC",
			Vars:               []interface{}{text},
			WithoutParentheses: true,
		},
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"youthPolicyHub/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reconcileBatchSize = 100

var searchColumns = []string{"title", "introduce", "application_details"}

type PolicyRepository struct {
	DB *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{
		DB: db,
	}
}

func (r *PolicyRepository) FindByID(ctx context.Context, id string) (domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return domain.Policy{}, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var policy domain.Policy

	err := r.DB.WithContext(ctx).Preload("Regions").First(&policy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Policy{}, fmt.Errorf("%w: policy %s", domain.ErrNotFound, id)
		}
		return domain.Policy{}, fmt.Errorf("failed to find policy: %w", err)
	}

	return policy, nil
}

func (r *PolicyRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	if len(ids) == 0 {
		return []domain.Policy{}, nil
	}

	var policies []domain.Policy
	if err := r.DB.WithContext(ctx).Preload("Regions").Where("id IN ?", ids).Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to find policies: %w", err)
	}

	return policies, nil
}

func (r *PolicyRepository) FindAllWithRegions(ctx context.Context) ([]domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	var policies []domain.Policy
	if err := r.DB.WithContext(ctx).Preload("Regions").Order("sort_order ASC").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	return policies, nil
}

// FindPage returns policies in catalog order. A region filter matches a policy
// holding any of the regions.
func (r *PolicyRepository) FindPage(ctx context.Context, filter domain.PolicyFilter, offset, limit int) ([]domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	db := r.DB.WithContext(ctx)

	var policies []domain.Policy
	err := db.Model(&domain.Policy{}).
		Scopes(r.filterScope(db, filter, "policies")).
		Preload("Regions").
		Order("sort_order ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&policies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}

	return policies, nil
}

// TopHot ranks by view_count + 3 * favorite count. Favorites are counted in a
// grouped subquery so the join never multiplies view rows.
func (r *PolicyRepository) TopHot(ctx context.Context, n int, filter domain.PolicyFilter) ([]domain.Policy, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	db := r.DB.WithContext(ctx)

	var policies []domain.Policy
	err := db.Table("policies AS p").
		Select("p.*").
		Joins("LEFT JOIN view_policies vp ON vp.policy_id = p.id").
		Joins("LEFT JOIN (SELECT policy_id, COUNT(*) AS favorite_count FROM favorite_policies GROUP BY policy_id) fc ON fc.policy_id = p.id").
		Scopes(r.filterScope(db, filter, "p")).
		Order("COALESCE(vp.view_count, 0) + COALESCE(fc.favorite_count, 0) * 3 DESC").
		Order("p.sort_order ASC").
		Order("p.id ASC").
		Limit(n).
		Find(&policies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank hot policies: %w", err)
	}

	if err := r.attachRegions(ctx, policies); err != nil {
		return nil, err
	}

	return policies, nil
}

// Search matches the phrase, or every token, against title, introduction and
// application details. Patterns arrive already escaped for LIKE.
func (r *PolicyRepository) Search(ctx context.Context, q domain.SearchQuery, offset, limit int) ([]domain.Policy, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	cond, args := searchCondition(q)
	db := r.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&domain.Policy{}).Where(cond, args...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}
	if total == 0 {
		return []domain.Policy{}, 0, nil
	}

	var policies []domain.Policy
	err := db.Model(&domain.Policy{}).
		Where(cond, args...).
		Preload("Regions").
		Order("sort_order ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&policies).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search policies: %w", err)
	}

	return policies, total, nil
}

// ApplyReconcile writes one refresh in a single transaction. Updated policies get
// their region rows rebuilt.
func (r *PolicyRepository) ApplyReconcile(ctx context.Context, inserts, updates []domain.Policy, deletes []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context error: %w", domain.ErrInternal, err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(inserts) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(&inserts, reconcileBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert policies: %w", err)
			}
			if err := createRegions(tx, inserts); err != nil {
				return err
			}
		}

		for i := range updates {
			p := &updates[i]
			if err := tx.Omit(clause.Associations).Save(p).Error; err != nil {
				return fmt.Errorf("failed to update policy %s: %w", p.ID, err)
			}
			if err := tx.Where("policy_id = ?", p.ID).Delete(&domain.PolicyRegion{}).Error; err != nil {
				return fmt.Errorf("failed to clear regions of policy %s: %w", p.ID, err)
			}
		}
		if err := createRegions(tx, updates); err != nil {
			return err
		}

		if len(deletes) > 0 {
			if err := tx.Where("policy_id IN ?", deletes).Delete(&domain.PolicyRegion{}).Error; err != nil {
				return fmt.Errorf("failed to delete policy regions: %w", err)
			}
			if err := tx.Where("id IN ?", deletes).Delete(&domain.Policy{}).Error; err != nil {
				return fmt.Errorf("failed to delete policies: %w", err)
			}
		}

		return nil
	})
}

func createRegions(tx *gorm.DB, policies []domain.Policy) error {
	var rows []domain.PolicyRegion
	for _, p := range policies {
		for _, region := range p.RegionList() {
			rows = append(rows, domain.PolicyRegion{PolicyID: p.ID, Region: region})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := tx.CreateInBatches(&rows, reconcileBatchSize*5).Error; err != nil {
		return fmt.Errorf("failed to insert policy regions: %w", err)
	}

	return nil
}

func (r *PolicyRepository) attachRegions(ctx context.Context, policies []domain.Policy) error {
	if len(policies) == 0 {
		return nil
	}

	ids := make([]string, 0, len(policies))
	for _, p := range policies {
		ids = append(ids, p.ID)
	}

	var rows []domain.PolicyRegion
	if err := r.DB.WithContext(ctx).Where("policy_id IN ?", ids).Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load policy regions: %w", err)
	}

	byPolicy := make(map[string][]domain.PolicyRegion, len(policies))
	for _, row := range rows {
		byPolicy[row.PolicyID] = append(byPolicy[row.PolicyID], row)
	}
	for i := range policies {
		policies[i].Regions = byPolicy[policies[i].ID]
	}

	return nil
}

// filterScope restricts by classification and by region membership. alias names
// the policies table in the outer query. With both filters set a policy must match
// both, including in hot ranking, so a preference never widens the candidate set.
func (r *PolicyRepository) filterScope(db *gorm.DB, filter domain.PolicyFilter, alias string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if len(filter.Regions) > 0 {
			sub := db.Session(&gorm.Session{NewDB: true}).
				Model(&domain.PolicyRegion{}).
				Distinct("policy_id").
				Where("region IN ?", regionValues(filter.Regions))
			tx = tx.Where(alias+".id IN (?)", sub)
		}
		if len(filter.Classifications) > 0 {
			tx = tx.Where(alias+".classification IN ?", classificationValues(filter.Classifications))
		}
		return tx
	}
}

func searchCondition(q domain.SearchQuery) (string, []interface{}) {
	cond, args := likeGroup(q.Phrase)
	if len(q.Tokens) <= 1 {
		return cond, args
	}

	parts := make([]string, 0, len(q.Tokens))
	for _, token := range q.Tokens {
		c, a := likeGroup(token)
		parts = append(parts, c)
		args = append(args, a...)
	}

	return "(" + cond + " OR (" + strings.Join(parts, " AND ") + "))", args
}

func likeGroup(term string) (string, []interface{}) {
	pattern := "%" + term + "%"
	parts := make([]string, 0, len(searchColumns))
	args := make([]interface{}, 0, len(searchColumns))
	for _, col := range searchColumns {
		parts = append(parts, col+` LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func regionValues(regions []domain.Region) []string {
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		out = append(out, string(r))
	}
	return out
}

func classificationValues(classes []domain.Classification) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, string(c))
	}
	return out
}

package domain

import (
	"sort"
	"time"
)

// CREATE TABLE public.policies (
//     id              VARCHAR(64) PRIMARY KEY,
//     title           TEXT,
//     classification  VARCHAR(32),
//     sort_order      INTEGER NOT NULL,
//     ...
// );
//
// CREATE TABLE public.policy_regions (
//     id         BIGSERIAL PRIMARY KEY,
//     policy_id  VARCHAR(64) REFERENCES policies(id) ON DELETE CASCADE,
//     region     VARCHAR(32),
//     UNIQUE (policy_id, region)
// );

type Policy struct {
	ID                        string         `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	Title                     string         `gorm:"column:title;type:text" json:"title"`
	Introduce                 string         `gorm:"column:introduce;type:text" json:"introduce"`
	Regions                   []PolicyRegion `gorm:"foreignKey:PolicyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Classification            Classification `gorm:"column:classification;type:varchar(32);index" json:"classification"`
	ApplicationPeriodStatus   string         `gorm:"column:application_period_status;type:text" json:"applicationPeriodStatus"`
	OperatingPeriod           string         `gorm:"column:operating_period;type:text" json:"operatingPeriod"`
	Age                       string         `gorm:"column:age;type:text" json:"age"`
	ApplicationDetails        string         `gorm:"column:application_details;type:text" json:"applicationDetails"`
	Residence                 string         `gorm:"column:residence;type:text" json:"residence"`
	Income                    string         `gorm:"column:income;type:text" json:"income"`
	Education                 string         `gorm:"column:education;type:text" json:"education"`
	Specialization            string         `gorm:"column:specialization;type:text" json:"specialization"`
	AdditionalNotes           string         `gorm:"column:additional_notes;type:text" json:"additionalNotes"`
	ParticipationRestrictions string         `gorm:"column:participation_restrictions;type:text" json:"participationRestrictions"`
	ApplicationProcess        string         `gorm:"column:application_process;type:text" json:"applicationProcess"`
	ScreeningAndAnnouncement  string         `gorm:"column:screening_and_announcement;type:text" json:"screeningAndAnnouncement"`
	ApplicationSite           string         `gorm:"column:application_site;type:text" json:"applicationSite"`
	SubmissionDocuments       string         `gorm:"column:submission_documents;type:text" json:"submissionDocuments"`
	Etc                       string         `gorm:"column:etc;type:text" json:"etc"`
	ManagingInstitution       string         `gorm:"column:managing_institution;type:text" json:"managingInstitution"`
	OperatingOrganization     string         `gorm:"column:operating_organization;type:text" json:"operatingOrganization"`
	ReferenceSite1            string         `gorm:"column:reference_site1;type:text" json:"referenceSite1"`
	ReferenceSite2            string         `gorm:"column:reference_site2;type:text" json:"referenceSite2"`
	SortOrder                 int            `gorm:"column:sort_order;not null;index" json:"sortOrder"`
	CreatedAt                 time.Time      `gorm:"column:created_at" json:"-"`
	UpdatedAt                 time.Time      `gorm:"column:updated_at" json:"-"`
}

func (Policy) TableName() string {
	return "policies"
}

type PolicyRegion struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	PolicyID string `gorm:"column:policy_id;type:varchar(64);not null;uniqueIndex:idx_policy_region"`
	Region   Region `gorm:"column:region;type:varchar(32);not null;uniqueIndex:idx_policy_region;index"`
}

func (PolicyRegion) TableName() string {
	return "policy_regions"
}

// RegionList returns the region set in a stable order.
func (p *Policy) RegionList() []Region {
	out := make([]Region, 0, len(p.Regions))
	for _, r := range p.Regions {
		out = append(out, r.Region)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetRegions replaces the region rows with one row per distinct region.
func (p *Policy) SetRegions(regions []Region) {
	seen := make(map[Region]struct{}, len(regions))
	p.Regions = make([]PolicyRegion, 0, len(regions))
	for _, r := range regions {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		p.Regions = append(p.Regions, PolicyRegion{PolicyID: p.ID, Region: r})
	}
}

func (p *Policy) HasAnyRegion(regions []Region) bool {
	for _, pr := range p.Regions {
		for _, r := range regions {
			if pr.Region == r {
				return true
			}
		}
	}
	return false
}

// ApplyChanges copies every content field and the sort order from src and
// reports whether anything differed. ID and timestamps are left alone.
func (p *Policy) ApplyChanges(src Policy) bool {
	changed := false
	set := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	set(&p.Title, src.Title)
	set(&p.Introduce, src.Introduce)
	set(&p.ApplicationPeriodStatus, src.ApplicationPeriodStatus)
	set(&p.OperatingPeriod, src.OperatingPeriod)
	set(&p.Age, src.Age)
	set(&p.ApplicationDetails, src.ApplicationDetails)
	set(&p.Residence, src.Residence)
	set(&p.Income, src.Income)
	set(&p.Education, src.Education)
	set(&p.Specialization, src.Specialization)
	set(&p.AdditionalNotes, src.AdditionalNotes)
	set(&p.ParticipationRestrictions, src.ParticipationRestrictions)
	set(&p.ApplicationProcess, src.ApplicationProcess)
	set(&p.ScreeningAndAnnouncement, src.ScreeningAndAnnouncement)
	set(&p.ApplicationSite, src.ApplicationSite)
	set(&p.SubmissionDocuments, src.SubmissionDocuments)
	set(&p.Etc, src.Etc)
	set(&p.ManagingInstitution, src.ManagingInstitution)
	set(&p.OperatingOrganization, src.OperatingOrganization)
	set(&p.ReferenceSite1, src.ReferenceSite1)
	set(&p.ReferenceSite2, src.ReferenceSite2)

	if p.Classification != src.Classification {
		p.Classification = src.Classification
		changed = true
	}

	if p.SortOrder != src.SortOrder {
		p.SortOrder = src.SortOrder
		changed = true
	}

	if !sameRegions(p.RegionList(), src.RegionList()) {
		p.SetRegions(src.RegionList())
		changed = true
	}

	return changed
}

func sameRegions(a, b []Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PolicyFilter narrows list and hot queries. Empty slices mean no restriction.
type PolicyFilter struct {
	Regions         []Region
	Classifications []Classification
}

func (f PolicyFilter) Matches(p *Policy) bool {
	if len(f.Regions) > 0 && !p.HasAnyRegion(f.Regions) {
		return false
	}
	if len(f.Classifications) > 0 {
		for _, c := range f.Classifications {
			if p.Classification == c {
				return true
			}
		}
		return false
	}
	return true
}

// SearchQuery is an escaped keyword ready for LIKE matching. A policy matches when the
// whole phrase appears in a searchable field, or when every token appears in one.
type SearchQuery struct {
	Phrase string
	Tokens []string
}

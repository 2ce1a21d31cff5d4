package domain

const missingText = "-"

func orDash(s string) string {
	if s == "" {
		return missingText
	}
	return s
}

// PolicySummary is the card shown in lists. It carries no per-user data so it can be cached.
type PolicySummary struct {
	ID                      string         `json:"id"`
	Title                   string         `json:"title"`
	Introduce               string         `json:"introduce"`
	Classification          Classification `json:"classification"`
	Regions                 []Region       `json:"regions"`
	AgeInfo                 string         `json:"ageInfo"`
	ApplicationPeriodStatus string         `json:"applicationPeriodStatus"`
}

func NewPolicySummary(p Policy) PolicySummary {
	regions := p.RegionList()
	if len(regions) == 0 {
		regions = []Region{RegionEtc}
	}
	return PolicySummary{
		ID:                      p.ID,
		Title:                   orDash(p.Title),
		Introduce:               orDash(p.Introduce),
		Classification:          p.Classification,
		Regions:                 regions,
		AgeInfo:                 orDash(p.Age),
		ApplicationPeriodStatus: orDash(p.ApplicationPeriodStatus),
	}
}

type PolicyListItem struct {
	PolicySummary
	IsFavorite bool `json:"isFavorite"`
}

type PolicyDetail struct {
	ID                        string         `json:"id"`
	Title                     string         `json:"title"`
	Introduce                 string         `json:"introduce"`
	Classification            Classification `json:"classification"`
	Regions                   []Region       `json:"regions"`
	ApplicationPeriodStatus   string         `json:"applicationPeriodStatus"`
	OperatingPeriod           string         `json:"operatingPeriod"`
	Age                       string         `json:"age"`
	ApplicationDetails        string         `json:"applicationDetails"`
	Residence                 string         `json:"residence"`
	Income                    string         `json:"income"`
	Education                 string         `json:"education"`
	Specialization            string         `json:"specialization"`
	AdditionalNotes           string         `json:"additionalNotes"`
	ParticipationRestrictions string         `json:"participationRestrictions"`
	ApplicationProcess        string         `json:"applicationProcess"`
	ScreeningAndAnnouncement  string         `json:"screeningAndAnnouncement"`
	ApplicationSite           string         `json:"applicationSite"`
	SubmissionDocuments       string         `json:"submissionDocuments"`
	Etc                       string         `json:"etc"`
	ManagingInstitution       string         `json:"managingInstitution"`
	OperatingOrganization     string         `json:"operatingOrganization"`
	ReferenceSite1            string         `json:"referenceSite1"`
	ReferenceSite2            string         `json:"referenceSite2"`
	ViewCount                 int64          `json:"viewCount"`
	IsFavorite                bool           `json:"isFavorite"`
}

func NewPolicyDetail(p Policy, isFavorite bool) PolicyDetail {
	return PolicyDetail{
		ID:                        p.ID,
		Title:                     orDash(p.Title),
		Introduce:                 orDash(p.Introduce),
		Classification:            p.Classification,
		Regions:                   p.RegionList(),
		ApplicationPeriodStatus:   orDash(p.ApplicationPeriodStatus),
		OperatingPeriod:           orDash(p.OperatingPeriod),
		Age:                       orDash(p.Age),
		ApplicationDetails:        orDash(p.ApplicationDetails),
		Residence:                 orDash(p.Residence),
		Income:                    orDash(p.Income),
		Education:                 orDash(p.Education),
		Specialization:            orDash(p.Specialization),
		AdditionalNotes:           orDash(p.AdditionalNotes),
		ParticipationRestrictions: orDash(p.ParticipationRestrictions),
		ApplicationProcess:        orDash(p.ApplicationProcess),
		ScreeningAndAnnouncement:  orDash(p.ScreeningAndAnnouncement),
		ApplicationSite:           orDash(p.ApplicationSite),
		SubmissionDocuments:       orDash(p.SubmissionDocuments),
		Etc:                       orDash(p.Etc),
		ManagingInstitution:       orDash(p.ManagingInstitution),
		OperatingOrganization:     orDash(p.OperatingOrganization),
		ReferenceSite1:            orDash(p.ReferenceSite1),
		ReferenceSite2:            orDash(p.ReferenceSite2),
		IsFavorite:                isFavorite,
	}
}

// FavoritePolicyItem is a favorite entry. IsActive is false once the policy has left the catalog.
type FavoritePolicyItem struct {
	PolicyID string         `json:"policyId"`
	Title    string         `json:"title"`
	IsActive bool           `json:"isActive"`
	Policy   *PolicySummary `json:"policy,omitempty"`
}

type SearchResult struct {
	Policies   []PolicyListItem `json:"policies"`
	TotalCount int64            `json:"totalCount"`
}

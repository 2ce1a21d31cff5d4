package ingestion

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"youthPolicyHub/business/region"
	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
)

// RegionResolver turns provider legal-dong codes into regions.
type RegionResolver interface {
	Resolve(codes string) region.Resolution
}

const (
	applyPeriodFixed  = "0057001"
	applyPeriodAlways = "0057002"
	applyPeriodClosed = "0057003"

	statusAlways = "상시"
	statusClosed = "마감"

	providerDateLayout = "20060102"
	otherLabel         = "기타"
)

var educationLabels = map[string]string{
	"0049001": "고졸 미만",
	"0049002": "고교 재학",
	"0049003": "고졸 예정",
	"0049004": "고교 졸업",
	"0049005": "대학 재학",
	"0049006": "대졸 예정",
	"0049007": "대학 졸업",
	"0049008": "석·박사",
	"0049009": "기타",
	"0049010": "제한없음",
}

var majorLabels = map[string]string{
	"0011001": "인문계열",
	"0011002": "사회계열",
	"0011003": "상경계열",
	"0011004": "이학계열",
	"0011005": "공학계열",
	"0011006": "예체능계열",
	"0011007": "농산업계열",
	"0011008": "기타",
	"0011009": "제한없음",
}

// application periods are separated by commas, newlines or a literal \N
var periodSeparator = regexp.MustCompile(`,|\n|\\N`)

// RawToPolicy converts one provider record. It is pure apart from today, which
// anchors the D-day countdown. SortOrder is assigned later by reconciliation.
func RawToPolicy(raw domain.RawPolicy, resolver RegionResolver, today time.Time) domain.Policy {
	resolved := resolver.Resolve(raw.ZipCode)

	p := domain.Policy{
		ID:                        strings.TrimSpace(raw.PolicyNo),
		Title:                     blankToEmpty(raw.PolicyName),
		Introduce:                 blankToEmpty(raw.PolicyDescription),
		Classification:            domain.ClassificationFromCode(raw.BasicPlanPolicyWayNo),
		ApplicationPeriodStatus:   applicationPeriodStatus(raw.ApplyPeriodTypeCode, raw.ApplyYmd, today),
		OperatingPeriod:           operatingPeriod(raw.BizPeriodBeginYmd, raw.BizPeriodEndYmd, raw.BizPeriodEtc),
		Age:                       ageInfo(raw.AgeLimitYn, raw.MinAge, raw.MaxAge),
		ApplicationDetails:        blankToEmpty(raw.SupportContent),
		Residence:                 resolved.Residence,
		Income:                    incomeInfo(raw.EarnMinAmount, raw.EarnMaxAmount, raw.EarnEtc),
		Education:                 joinLabels(raw.SchoolCode, educationLabels),
		Specialization:            joinLabels(raw.MajorCode, majorLabels),
		AdditionalNotes:           blankToEmpty(raw.AdditionalQualification),
		ParticipationRestrictions: blankToEmpty(raw.ParticipantRestriction),
		ApplicationProcess:        blankToEmpty(raw.ApplyMethod),
		ScreeningAndAnnouncement:  blankToEmpty(raw.ScreeningMethod),
		ApplicationSite:           blankToEmpty(raw.ApplyURL),
		SubmissionDocuments:       blankToEmpty(raw.SubmitDocuments),
		Etc:                       blankToEmpty(raw.EtcMatter),
		ManagingInstitution:       blankToEmpty(raw.SupervisingInstitution),
		OperatingOrganization:     blankToEmpty(raw.OperatingInstitution),
		ReferenceSite1:            blankToEmpty(raw.ReferenceURL1),
		ReferenceSite2:            blankToEmpty(raw.ReferenceURL2),
	}
	p.SetRegions(resolved.Regions)

	return p
}

func blankToEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func applicationPeriodStatus(code, period string, today time.Time) string {
	switch strings.TrimSpace(code) {
	case applyPeriodAlways:
		return statusAlways
	case applyPeriodClosed:
		return statusClosed
	case applyPeriodFixed:
		if end, ok := latestEndDate(period); ok {
			if status, ok := remainingDays(end, today); ok {
				return status
			}
		}
	}

	logger.Warn("Invalid application period", "code", code, "period", period)
	return ""
}

// latestEndDate picks the greatest end date among "yyyyMMdd ~ yyyyMMdd" periods.
func latestEndDate(period string) (string, bool) {
	latest := ""
	for _, part := range periodSeparator.Split(period, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dates := strings.Split(part, " ~ ")
		if len(dates) != 2 {
			continue
		}
		end := strings.TrimSpace(dates[1])
		if end > latest {
			latest = end
		}
	}
	return latest, latest != ""
}

func remainingDays(end string, today time.Time) (string, bool) {
	endDate, err := time.ParseInLocation(providerDateLayout, end, today.Location())
	if err != nil {
		logger.Warn("Failed to parse application end date", "end", end, "error", err)
		return "", false
	}

	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	days := int(endDate.Sub(start).Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("D-%d", days), true
	}
	return statusClosed, true
}

func operatingPeriod(begin, end, etc string) string {
	etc = blankToEmpty(etc)
	if strings.TrimSpace(begin) == "" || strings.TrimSpace(end) == "" {
		return etc
	}

	b, errB := time.Parse(providerDateLayout, strings.TrimSpace(begin))
	e, errE := time.Parse(providerDateLayout, strings.TrimSpace(end))
	if errB != nil || errE != nil {
		logger.Warn("Failed to parse business period", "begin", begin, "end", end)
		return etc
	}

	const layout = "2006년 01월 02일"
	period := b.Format(layout) + " ~ " + e.Format(layout)
	if etc != "" {
		return period + "\n" + etc
	}
	return period
}

// ageInfo: a limit flag of "Y" means the policy has no age limit.
func ageInfo(limitYn, minAge, maxAge string) string {
	minAge, maxAge = strings.TrimSpace(minAge), strings.TrimSpace(maxAge)
	if strings.TrimSpace(limitYn) == "Y" || (minAge == "" && maxAge == "") {
		return ""
	}
	return fmt.Sprintf("만 %s세 ~ 만 %s세", minAge, maxAge)
}

func incomeInfo(minAmt, maxAmt, etc string) string {
	hasAmount := func(s string) bool {
		s = strings.TrimSpace(s)
		return s != "" && s != "0"
	}
	etc = blankToEmpty(etc)

	if hasAmount(minAmt) && hasAmount(maxAmt) {
		r := fmt.Sprintf("최소 %s원 ~ 최대 %s원", strings.TrimSpace(minAmt), strings.TrimSpace(maxAmt))
		if etc != "" {
			return r + "\n" + etc
		}
		return r
	}
	return etc
}

func joinLabels(codes string, labels map[string]string) string {
	if strings.TrimSpace(codes) == "" {
		return ""
	}

	parts := strings.Split(codes, ",")
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		label, ok := labels[strings.TrimSpace(c)]
		if !ok {
			label = otherLabel
		}
		out = append(out, label)
	}
	return strings.Join(out, ", ")
}

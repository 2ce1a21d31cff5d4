package region

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
)

const (
	activeStatus       = "존재"
	districtCodeLength = 5
	fullCodeLength     = 10
	noResidence        = "-"
)

// Resolution is the outcome of turning provider region codes into regions.
type Resolution struct {
	Regions   []domain.Region
	Residence string
}

// Resolver maps five-digit district codes to district names. It is read-only after Load.
type Resolver struct {
	districts map[string]string
}

func LoadFromFile(path string) (*Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open region code data: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads the legal-dong code table: a header line, then tab separated
// code, name and status columns. Abolished rows are skipped and the first
// name seen for a district wins.
func Load(r io.Reader) (*Resolver, error) {
	res := &Resolver{districts: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	total, skipped, duplicates := 0, 0, 0
	header := true

	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\ufeff")
		total++
		if header {
			header = false
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			skipped++
			continue
		}

		code := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])
		status := strings.TrimSpace(parts[2])

		if status != activeStatus || len(code) < fullCodeLength {
			skipped++
			continue
		}

		district := code[:districtCodeLength]
		if _, ok := res.districts[district]; ok {
			duplicates++
			continue
		}
		res.districts[district] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read region code data: %w", err)
	}

	logger.Info("Region code data loaded",
		"lines", total,
		"districts", len(res.districts),
		"duplicates", duplicates,
		"skipped", skipped,
	)

	return res, nil
}

func (r *Resolver) Len() int {
	return len(r.districts)
}

// Resolve turns comma separated legal-dong codes into the set of provinces and a
// residence line. Covering all 17 provinces collapses to NATIONWIDE.
func (r *Resolver) Resolve(codes string) Resolution {
	if strings.TrimSpace(codes) == "" {
		return Resolution{Regions: []domain.Region{}, Residence: noResidence}
	}

	provinces := make(map[domain.Region]struct{})
	seenNames := make(map[string]struct{})
	var names []string

	for _, code := range strings.Split(codes, ",") {
		code = strings.TrimSpace(code)
		if len(code) >= districtCodeLength {
			code = code[:districtCodeLength]
		}

		name, ok := r.districts[code]
		if !ok {
			continue
		}
		if _, dup := seenNames[name]; !dup {
			seenNames[name] = struct{}{}
			names = append(names, name)
		}
		provinces[domain.RegionFromDistrictName(name)] = struct{}{}
	}

	if coversAllProvinces(provinces) {
		return Resolution{
			Regions:   []domain.Region{domain.RegionNationwide},
			Residence: domain.NationwideDisplay,
		}
	}

	regions := make([]domain.Region, 0, len(provinces))
	for p := range provinces {
		regions = append(regions, p)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })

	residence := noResidence
	if len(names) > 0 {
		residence = strings.Join(names, ", ")
	}

	return Resolution{Regions: regions, Residence: residence}
}

func coversAllProvinces(found map[domain.Region]struct{}) bool {
	for _, p := range domain.Provinces {
		if _, ok := found[p]; !ok {
			return false
		}
	}
	return true
}

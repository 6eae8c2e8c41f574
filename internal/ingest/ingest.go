// Package ingest loads department configuration and provider availability
// data from disk into model types.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

const dateLayout = "2006-01-02"

// LoadDepartmentConfig reads one department's YAML definition.
func LoadDepartmentConfig(path string) (*model.DepartmentConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read department config")
	}
	var cfg model.DepartmentConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, eris.Wrap(err, "ingest: parse department config")
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	zap.L().Debug("loaded department config",
		zap.String("department", cfg.Name),
		zap.Int("providers", len(cfg.Providers)),
	)
	return &cfg, nil
}

func validate(cfg *model.DepartmentConfig) error {
	if cfg.Name == "" {
		return model.ConfigErrorf("department name is required")
	}
	if len(cfg.Providers) == 0 {
		return model.ConfigErrorf("department %s: no providers defined", cfg.Name)
	}
	for _, d := range cfg.ClinicDays {
		if _, err := calendar.ParseWeekday(d); err != nil {
			return err
		}
	}
	for d := range cfg.ClinicSessions {
		if _, err := calendar.ParseWeekday(d); err != nil {
			return err
		}
	}
	for _, d := range cfg.CallDays {
		if _, err := calendar.ParseWeekday(d); err != nil {
			return err
		}
	}
	for _, d := range cfg.RandomDayOff.EligibleDays {
		if _, err := calendar.ParseWeekday(d); err != nil {
			return err
		}
	}
	if cfg.SpecialtyDay != "" {
		if _, err := calendar.ParseWeekday(cfg.SpecialtyDay); err != nil {
			return err
		}
	}
	for _, d := range []string{
		cfg.InpatientSchedule.InpatientStartsOn,
		cfg.InpatientSchedule.InpatientEndsOn,
		cfg.InpatientSchedule.PreInpatientLeave,
		cfg.InpatientSchedule.PostInpatientLeave,
	} {
		if d == "" {
			continue
		}
		if _, err := calendar.ParseWeekday(d); err != nil {
			return err
		}
	}
	for name, p := range cfg.Providers {
		if p.MaxClinicsPerWeek < 0 {
			return model.ConfigErrorf("provider %s: negative clinic limit", name)
		}
	}
	return nil
}

// LoadLeave reads provider,date rows. Rows naming providers absent from
// cfg are dropped with a warning so shared availability files can span
// departments.
func LoadLeave(path string, cfg *model.DepartmentConfig) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	err := readCSV(path, cfg, func(provider string, day time.Time) {
		out = append(out, model.LeaveRequest{Provider: provider, Date: day})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadInpatient reads provider,start-date rows marking rotation starts.
func LoadInpatient(path string, cfg *model.DepartmentConfig) ([]model.InpatientStart, error) {
	var out []model.InpatientStart
	err := readCSV(path, cfg, func(provider string, day time.Time) {
		out = append(out, model.InpatientStart{Provider: provider, Date: day})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func readCSV(path string, cfg *model.DepartmentConfig, emit func(string, time.Time)) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return eris.Wrap(err, "ingest: read csv")
		}
		line++
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) < 2 {
			return model.DataErrorf("%s line %d: expected provider,date", path, line)
		}
		provider := strings.TrimSpace(rec[0])
		rawDate := strings.TrimSpace(rec[1])
		if provider == "" && rawDate == "" {
			continue
		}
		day, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return model.DataErrorf("%s line %d: bad date %q", path, line, rawDate)
		}
		if _, ok := cfg.Providers[provider]; !ok {
			zap.L().Warn("dropping row for unknown provider",
				zap.String("file", path),
				zap.String("provider", provider),
				zap.String("department", cfg.Name),
			)
			continue
		}
		emit(provider, calendar.Normalize(day))
	}
	return nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "provider" || first == "name"
}

// ExpandInpatient turns rotation starts into per-day inpatient records
// using the department's rotation length.
func ExpandInpatient(starts []model.InpatientStart, cfg *model.DepartmentConfig) []model.InpatientDay {
	length := cfg.InpatientSchedule.Length()
	var out []model.InpatientDay
	for _, s := range starts {
		for i := 0; i < length; i++ {
			out = append(out, model.InpatientDay{
				Provider: s.Provider,
				Date:     s.Date.AddDate(0, 0, i),
			})
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

// ytdFile carries year-to-date positions from one pay run into the next,
// keyed by employee ID. Each entry has the same shape as an employee's
// ytd block in a payroll file.
type ytdFile struct {
	Employees map[string]ytdDTO `yaml:"employees"`
}

func ytdFromDomain(y domain.EmployeeYtd) ytdDTO {
	dto := ytdDTO{
		TaxYear:                       y.TaxYear,
		LastPeriod:                    y.LastPeriod,
		GrossPay:                      y.GrossPay,
		TaxablePay:                    y.TaxablePay,
		TaxPaid:                       y.TaxPaid,
		TaxUnpaidDueToRegulatoryLimit: y.TaxUnpaidDueToRegulatoryLimit,
		StudentLoan:                   y.StudentLoan,
		PostgraduateLoan:              y.PostgraduateLoan,
		EmployeePension:               y.EmployeePension,
		EmployerPension:               y.EmployerPension,
		AttachmentOrders:              y.AttachmentOrders,
	}
	for _, e := range y.Ni.Entries {
		n := niYtdDTO{
			Category:              e.Category.String(),
			GrossNicablePay:       e.GrossNicablePay,
			EmployeeContributions: e.EmployeeContributions,
			EmployerContributions: e.EmployerContributions,
		}
		n.Earnings.AtLEL = e.Earnings.AtLEL
		n.Earnings.LELToPT = e.Earnings.LELToPT
		n.Earnings.PTToUEL = e.Earnings.PTToUEL
		n.Earnings.AboveUEL = e.Earnings.AboveUEL
		dto.Ni = append(dto.Ni, n)
	}
	return dto
}

// MarshalYtd encodes year-to-date positions as YAML
func MarshalYtd(ytd map[string]domain.EmployeeYtd) ([]byte, error) {
	file := ytdFile{Employees: make(map[string]ytdDTO, len(ytd))}
	for id, y := range ytd {
		file.Employees[id] = ytdFromDomain(y)
	}
	return yaml.Marshal(file)
}

// LoadYtdFromFile reads year-to-date positions written by MarshalYtd
func (ip *InputParser) LoadYtdFromFile(filename string) (map[string]domain.EmployeeYtd, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var file ytdFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	out := make(map[string]domain.EmployeeYtd, len(file.Employees))
	for id, dto := range file.Employees {
		y, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("employee %s ytd: %w", id, err)
		}
		out[id] = y
	}
	return out, nil
}

// ApplyYtd replaces the year-to-date position of every employee found in ytd
// and returns the IDs of employees that had no entry, sorted.
func ApplyYtd(input *domain.PayrollInput, ytd map[string]domain.EmployeeYtd) []string {
	var missing []string
	for i := range input.Employees {
		id := input.Employees[i].Employee.ID
		y, ok := ytd[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		input.Employees[i].Ytd = y
	}
	sort.Strings(missing)
	return missing
}

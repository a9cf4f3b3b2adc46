package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/taxcode"
)

// InputParser handles parsing of payroll input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a pay run request from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.PayrollInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML pay run request
func (ip *InputParser) Parse(data []byte) (*domain.PayrollInput, error) {
	var file payrollFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	input, err := file.toDomain()
	if err != nil {
		return nil, err
	}

	if err := ip.ValidatePayrollInput(input); err != nil {
		return nil, fmt.Errorf("payroll input validation failed: %w", err)
	}
	return input, nil
}

// ValidatePayrollInput validates the loaded pay run request
func (ip *InputParser) ValidatePayrollInput(input *domain.PayrollInput) error {
	if input.PayDate.IsZero() {
		return fmt.Errorf("pay date is required")
	}
	if len(input.Employees) == 0 {
		return fmt.Errorf("no employees provided")
	}

	seen := make(map[string]bool, len(input.Employees))
	for i := range input.Employees {
		e := &input.Employees[i]
		if err := e.Validate(); err != nil {
			return fmt.Errorf("employee %d (%s) validation failed: %w", i, e.Employee.ID, err)
		}
		if seen[e.Employee.ID] {
			return fmt.Errorf("employee id %s appears more than once", e.Employee.ID)
		}
		seen[e.Employee.ID] = true

		if _, err := taxcode.Parse(e.Employee.TaxCode); err != nil {
			return fmt.Errorf("employee %s: %w", e.Employee.ID, err)
		}
		if e.Employee.BirthDate != nil && e.Employee.BirthDate.After(input.PayDate) {
			return fmt.Errorf("employee %s: birth date cannot be after the pay date", e.Employee.ID)
		}
		if e.Employee.DirectorAppointed != nil && e.Employee.DirectorAppointed.After(input.PayDate) {
			return fmt.Errorf("employee %s: director appointment cannot be after the pay date", e.Employee.ID)
		}
	}
	return nil
}

type payrollFile struct {
	PayDate       string        `yaml:"pay_date"`
	SmallEmployer bool          `yaml:"small_employer"`
	Employees     []employeeDTO `yaml:"employees"`
}

type employeeDTO struct {
	ID                  string               `yaml:"id"`
	Name                string               `yaml:"name"`
	BirthDate           string               `yaml:"birth_date"`
	Country             string               `yaml:"country"`
	PayFrequency        string               `yaml:"pay_frequency"`
	TaxCode             string               `yaml:"tax_code"`
	NiCategory          string               `yaml:"ni_category"`
	IsDirector          bool                 `yaml:"is_director"`
	DirectorsNiMethod   string               `yaml:"directors_ni_method"`
	DirectorAppointed   string               `yaml:"director_appointed"`
	StudentLoanPlan     string               `yaml:"student_loan_plan"`
	HasPostgraduateLoan bool                 `yaml:"has_postgraduate_loan"`
	Pension             *pensionSchemeDTO    `yaml:"pension"`
	AttachmentOrders    []attachmentOrderDTO `yaml:"attachment_orders"`
	Pay                 periodPayDTO         `yaml:"pay"`
	Ytd                 ytdDTO               `yaml:"ytd"`
}

type pensionSchemeDTO struct {
	Name         string          `yaml:"name"`
	Basis        string          `yaml:"basis"`
	TaxTreatment string          `yaml:"tax_treatment"`
	EmployeeRate decimal.Decimal `yaml:"employee_rate"`
	EmployerRate decimal.Decimal `yaml:"employer_rate"`
}

type attachmentOrderDTO struct {
	ID                 string           `yaml:"id"`
	Reference          string           `yaml:"reference"`
	TableID            string           `yaml:"table_id"`
	Priority           int              `yaml:"priority"`
	ProtectedEarnings  decimal.Decimal  `yaml:"protected_earnings"`
	OutstandingBalance *decimal.Decimal `yaml:"outstanding_balance"`
}

type periodPayDTO struct {
	GrossPay          decimal.Decimal       `yaml:"gross_pay"`
	PensionablePay    *decimal.Decimal      `yaml:"pensionable_pay"`
	IsFinalPeriod     bool                  `yaml:"is_final_period"`
	StatutoryPayments []statutoryPaymentDTO `yaml:"statutory_payments"`
}

type statutoryPaymentDTO struct {
	Type   string          `yaml:"type"`
	Amount decimal.Decimal `yaml:"amount"`
}

type ytdDTO struct {
	TaxYear                       int             `yaml:"tax_year"`
	LastPeriod                    int             `yaml:"last_period"`
	GrossPay                      decimal.Decimal `yaml:"gross_pay"`
	TaxablePay                    decimal.Decimal `yaml:"taxable_pay"`
	TaxPaid                       decimal.Decimal `yaml:"tax_paid"`
	TaxUnpaidDueToRegulatoryLimit decimal.Decimal `yaml:"tax_unpaid_due_to_regulatory_limit"`
	StudentLoan                   decimal.Decimal `yaml:"student_loan"`
	PostgraduateLoan              decimal.Decimal `yaml:"postgraduate_loan"`
	EmployeePension               decimal.Decimal `yaml:"employee_pension"`
	EmployerPension               decimal.Decimal `yaml:"employer_pension"`
	AttachmentOrders              decimal.Decimal `yaml:"attachment_orders"`
	Ni                            []niYtdDTO      `yaml:"ni"`
}

type niYtdDTO struct {
	Category              string          `yaml:"category"`
	GrossNicablePay       decimal.Decimal `yaml:"gross_nicable_pay"`
	EmployeeContributions decimal.Decimal `yaml:"employee_contributions"`
	EmployerContributions decimal.Decimal `yaml:"employer_contributions"`
	Earnings              struct {
		AtLEL    decimal.Decimal `yaml:"at_lel"`
		LELToPT  decimal.Decimal `yaml:"lel_to_pt"`
		PTToUEL  decimal.Decimal `yaml:"pt_to_uel"`
		AboveUEL decimal.Decimal `yaml:"above_uel"`
	} `yaml:"earnings"`
}

func (f payrollFile) toDomain() (*domain.PayrollInput, error) {
	payDate, err := time.Parse(dateLayout, strings.TrimSpace(f.PayDate))
	if err != nil {
		return nil, fmt.Errorf("pay_date %q: %w", f.PayDate, err)
	}
	input := &domain.PayrollInput{PayDate: payDate, SmallEmployer: f.SmallEmployer}
	for i, e := range f.Employees {
		epi, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("employee %d (%s): %w", i, e.ID, err)
		}
		input.Employees = append(input.Employees, epi)
	}
	return input, nil
}

func (e employeeDTO) toDomain() (domain.EmployeePayInput, error) {
	var out domain.EmployeePayInput
	emp := domain.Employee{
		ID:                  e.ID,
		Name:                e.Name,
		TaxCode:             strings.TrimSpace(e.TaxCode),
		IsDirector:          e.IsDirector,
		HasPostgraduateLoan: e.HasPostgraduateLoan,
	}

	var err error
	if e.BirthDate != "" {
		bd, err := time.Parse(dateLayout, e.BirthDate)
		if err != nil {
			return out, fmt.Errorf("birth_date %q: %w", e.BirthDate, err)
		}
		emp.BirthDate = &bd
	}
	if e.DirectorAppointed != "" {
		appointed, err := time.Parse(dateLayout, e.DirectorAppointed)
		if err != nil {
			return out, fmt.Errorf("director_appointed %q: %w", e.DirectorAppointed, err)
		}
		emp.DirectorAppointed = &appointed
	}
	if emp.Country, err = domain.ParseCountry(e.Country); err != nil {
		return out, err
	}
	if emp.PayFrequency, err = domain.ParsePayFrequency(e.PayFrequency); err != nil {
		return out, err
	}
	category := e.NiCategory
	if category == "" {
		category = "A"
	}
	if emp.NiCategory, err = domain.ParseNiCategory(category); err != nil {
		return out, err
	}
	switch strings.ToLower(strings.TrimSpace(e.DirectorsNiMethod)) {
	case "", "standard":
		emp.DirectorsNiMethod = domain.DirectorsStandardMethod
	case "alternative":
		emp.DirectorsNiMethod = domain.DirectorsAlternativeMethod
	default:
		return out, &domain.InvalidInputError{Parameter: "directors_ni_method", Value: e.DirectorsNiMethod, Reason: "must be standard or alternative"}
	}
	if emp.StudentLoanPlan, err = domain.ParseStudentLoanPlan(e.StudentLoanPlan); err != nil {
		return out, err
	}

	if e.Pension != nil {
		scheme := domain.PensionScheme{Name: e.Pension.Name, EmployeeRate: e.Pension.EmployeeRate, EmployerRate: e.Pension.EmployerRate}
		if scheme.Basis, err = domain.ParsePensionBasis(e.Pension.Basis); err != nil {
			return out, err
		}
		if scheme.TaxTreatment, err = domain.ParseTaxTreatment(e.Pension.TaxTreatment); err != nil {
			return out, err
		}
		emp.Pension = &scheme
	}

	for _, o := range e.AttachmentOrders {
		emp.AttachmentOrders = append(emp.AttachmentOrders, domain.AttachmentOrder{
			ID:                 o.ID,
			Reference:          o.Reference,
			TableID:            o.TableID,
			Priority:           o.Priority,
			ProtectedEarnings:  o.ProtectedEarnings,
			OutstandingBalance: o.OutstandingBalance,
		})
	}

	pay := domain.PeriodPay{
		GrossPay:       e.Pay.GrossPay,
		PensionablePay: e.Pay.PensionablePay,
		IsFinalPeriod:  e.Pay.IsFinalPeriod,
	}
	for _, sp := range e.Pay.StatutoryPayments {
		t, err := domain.ParseStatutoryPaymentType(sp.Type)
		if err != nil {
			return out, err
		}
		pay.StatutoryPayments = append(pay.StatutoryPayments, domain.StatutoryPayment{Type: t, Amount: sp.Amount})
	}

	ytd, err := e.Ytd.toDomain()
	if err != nil {
		return out, err
	}

	return domain.EmployeePayInput{Employee: emp, Pay: pay, Ytd: ytd}, nil
}

func (y ytdDTO) toDomain() (domain.EmployeeYtd, error) {
	ytd := domain.EmployeeYtd{
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
	for _, n := range y.Ni {
		cat, err := domain.ParseNiCategory(n.Category)
		if err != nil {
			return ytd, err
		}
		ytd.Ni.Entries = append(ytd.Ni.Entries, domain.NiYtdEntry{
			Category:              cat,
			GrossNicablePay:       n.GrossNicablePay,
			EmployeeContributions: n.EmployeeContributions,
			EmployerContributions: n.EmployerContributions,
			Earnings: domain.NiEarningsBreakdown{
				AtLEL: n.Earnings.AtLEL, LELToPT: n.Earnings.LELToPT,
				PTToUEL: n.Earnings.PTToUEL, AboveUEL: n.Earnings.AboveUEL,
			},
		})
	}
	return ytd, nil
}

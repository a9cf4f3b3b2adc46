package payrun

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/calculation"
	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/taxcode"
	"github.com/ukpaye/payroll-engine/pkg/dateutil"
)

// Employees must be under these ages for the reduced-rate employer categories
var categoryAgeLimits = map[domain.NiCategory]int{'H': 25, 'M': 21, 'Z': 21}

const statePensionAge = 66

// calculateEmployee works one employee through the statutory calculators.
// Errors are wrapped in an EmployeeError.
func (e *Engine) calculateEmployee(payDate time.Time, taxYear int, smallEmployer bool, in domain.EmployeePayInput) (*Payslip, error) {
	emp := in.Employee
	fail := func(period int, err error) (*Payslip, error) {
		return nil, &EmployeeError{EmployeeID: emp.ID, PayDate: payDate, Period: period, Err: err}
	}

	if err := in.Validate(); err != nil {
		return fail(0, err)
	}
	freq := emp.PayFrequency
	period, err := dateutil.TaxPeriod(payDate, freq.PeriodsPerYear())
	if err != nil {
		return fail(0, err)
	}

	slip := &Payslip{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Country:    emp.Country,
		Frequency:  freq,
		Period:     period,
		GrossPay:   in.Pay.GrossPay,
	}
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		slip.Warnings = append(slip.Warnings, msg)
		e.logger.Warnf("employee %s: %s", emp.ID, msg)
	}

	ytd := in.Ytd
	if ytd.TaxYear != 0 && ytd.TaxYear != taxYear {
		e.logger.Infof("employee %s: year to date is for %s, starting %s from zero",
			emp.ID, dateutil.TaxYearLabel(ytd.TaxYear), dateutil.TaxYearLabel(taxYear))
		ytd = domain.EmployeeYtd{}
	}
	if ytd.LastPeriod >= period {
		return fail(period, &domain.InvalidInputError{
			Parameter: "ytd.last_period",
			Value:     ytd.LastPeriod,
			Reason:    fmt.Sprintf("period %d has already been paid", period),
		})
	}

	code, err := taxcode.Parse(emp.TaxCode)
	if err != nil {
		return fail(period, err)
	}
	// HMRC decides the tax jurisdiction through the code prefix; a code
	// without one is operated on rest of UK bands
	taxCountry := domain.England
	if code.Country != 0 {
		taxCountry = code.Country
	}

	// Pension comes first: a net pay arrangement reduces pay before tax
	taxableGross := in.Pay.GrossPay
	if emp.Pension != nil {
		pc, err := e.factory.PensionCalculator(payDate, emp.Country, freq)
		if err != nil {
			return fail(period, err)
		}
		slip.Pension, err = pc.Calculate(domain.PensionInputs{Scheme: *emp.Pension, PensionablePay: in.Pay.PensionablePayOrGross()})
		if err != nil {
			return fail(period, err)
		}
		if slip.Pension.TaxTreatment == domain.NetPayArrangement {
			taxableGross = nonNegative(taxableGross.Sub(slip.Pension.EmployeeDeduction))
		}
	}

	tc, err := e.factory.TaxCalculator(payDate, taxCountry, freq)
	if err != nil {
		return fail(period, err)
	}
	slip.Tax, err = tc.Calculate(
		calculation.TaxPeriodInputs{Code: code, Period: period, GrossPayThisPeriod: taxableGross},
		domain.TaxYtd{
			TaxablePayToDate:        ytd.TaxablePay,
			TaxPaidToDate:           ytd.TaxPaid,
			TaxUnpaidBroughtForward: ytd.TaxUnpaidDueToRegulatoryLimit,
		})
	if err != nil {
		return fail(period, err)
	}

	slip.Ni, err = e.calculateNi(payDate, emp, in.Pay, ytd.Ni.ForCategory(emp.NiCategory))
	if err != nil {
		return fail(period, err)
	}

	if emp.StudentLoanPlan != domain.NoStudentLoan || emp.HasPostgraduateLoan {
		sc, err := e.factory.StudentLoanCalculator(payDate, emp.Country, freq)
		if err != nil {
			return fail(period, err)
		}
		slip.StudentLoan, err = sc.Calculate(domain.StudentLoanInputs{
			Plan:            emp.StudentLoanPlan,
			HasPostgraduate: emp.HasPostgraduateLoan,
			Earnings:        in.Pay.GrossPay,
		})
		if err != nil {
			return fail(period, err)
		}
	}

	slip.AttachableEarnings = nonNegative(in.Pay.GrossPay.
		Sub(slip.IncomeTax()).
		Sub(slip.EmployeeNi()).
		Sub(slip.PensionDeduction()))
	if len(emp.AttachmentOrders) > 0 {
		ac, err := e.factory.AttachmentOrderCalculator(payDate, emp.Country, freq)
		if err != nil {
			return fail(period, err)
		}
		slip.Attachments, err = ac.CalculateAll(emp.AttachmentOrders, slip.AttachableEarnings)
		if err != nil {
			return fail(period, err)
		}
	}

	if len(in.Pay.StatutoryPayments) > 0 {
		rc, err := e.factory.ReclaimCalculator(payDate, emp.Country)
		if err != nil {
			return fail(period, err)
		}
		slip.Reclaim, err = rc.Calculate(in.Pay.StatutoryPayments, smallEmployer)
		if err != nil {
			return fail(period, err)
		}
	}

	slip.TotalDeductions = slip.IncomeTax().
		Add(slip.EmployeeNi()).
		Add(slip.PensionDeduction()).
		Add(slip.StudentLoanDeduction()).
		Add(slip.AttachmentDeduction())
	slip.NetPay = in.Pay.GrossPay.Sub(slip.TotalDeductions)
	if slip.NetPay.IsNegative() {
		warn("deductions exceed gross pay by %s", slip.NetPay.Neg().StringFixed(2))
	}
	if slip.Tax.TaxUnpaidDueToRegulatoryLimit.IsPositive() {
		warn("%s of tax deferred by the regulatory limit", slip.Tax.TaxUnpaidDueToRegulatoryLimit.StringFixed(2))
	}
	if emp.Country == domain.Scotland && taxCountry != domain.Scotland {
		warn("Scottish employee on tax code %s, rest of UK rates applied", emp.TaxCode)
	}
	if emp.BirthDate != nil {
		checkCategoryAge(emp, dateutil.Age(*emp.BirthDate, payDate), warn)
	}

	slip.Ytd = foldYtd(ytd, taxYear, period, taxableGross, slip)
	e.logger.Debugf("employee %s period %d: gross %s tax %s ni %s net %s", emp.ID, period,
		slip.GrossPay.StringFixed(2), slip.IncomeTax().StringFixed(2), slip.EmployeeNi().StringFixed(2), slip.NetPay.StringFixed(2))
	return slip, nil
}

// calculateNi uses the directors' annual earnings period where it applies
func (e *Engine) calculateNi(payDate time.Time, emp domain.Employee, pay domain.PeriodPay, ytd domain.NiYtdEntry) (*domain.NiResult, error) {
	in := domain.NiPeriodInputs{Category: emp.NiCategory, GrossNicablePay: pay.GrossPay}
	if !emp.IsDirector {
		nc, err := e.factory.NiCalculator(payDate, emp.Country, emp.PayFrequency)
		if err != nil {
			return nil, err
		}
		return nc.Calculate(in)
	}

	dc, err := e.factory.DirectorsNiCalculator(payDate, emp.Country, emp.PayFrequency)
	if err != nil {
		return nil, err
	}
	weeks, err := directorProRataWeeks(emp.DirectorAppointed, payDate)
	if err != nil {
		return nil, err
	}
	return dc.Calculate(domain.DirectorsNiInputs{
		NiPeriodInputs: in,
		Method:         emp.DirectorsNiMethod,
		ProRataWeeks:   weeks,
		IsFinalPeriod:  pay.IsFinalPeriod,
	}, ytd)
}

// directorProRataWeeks is the length in weeks of a director's annual earnings
// period, counted from the tax week of appointment. 0 means the whole year.
func directorProRataWeeks(appointed *time.Time, payDate time.Time) (int, error) {
	if appointed == nil {
		return 0, nil
	}
	if appointed.After(payDate) {
		return 0, &domain.InvalidInputError{
			Parameter: "employee.director_appointed",
			Value:     appointed.Format("2006-01-02"),
			Reason:    "is after the pay date",
		}
	}
	if dateutil.TaxYearEnding(*appointed) != dateutil.TaxYearEnding(payDate) {
		return 0, nil
	}
	return dateutil.WeeksRemainingInTaxYear(*appointed), nil
}

func checkCategoryAge(emp domain.Employee, age int, warn func(string, ...any)) {
	if limit, ok := categoryAgeLimits[emp.NiCategory]; ok && age >= limit {
		warn("NI category %s requires an employee under %d, employee is %d", emp.NiCategory, limit, age)
	}
	if emp.NiCategory == 'C' && age < statePensionAge {
		warn("NI category C is for employees over state pension age, employee is %d", age)
	}
}

// foldYtd returns the year-to-date position after this period. The previous
// position is not modified.
func foldYtd(prev domain.EmployeeYtd, taxYear, period int, taxableGross decimal.Decimal, slip *Payslip) domain.EmployeeYtd {
	next := prev
	next.TaxYear = taxYear
	next.LastPeriod = period
	next.GrossPay = prev.GrossPay.Add(slip.GrossPay)
	next.TaxablePay = prev.TaxablePay.Add(taxableGross)
	next.TaxPaid = prev.TaxPaid.Add(slip.IncomeTax())
	next.TaxUnpaidDueToRegulatoryLimit = slip.Tax.TaxUnpaidDueToRegulatoryLimit
	if slip.StudentLoan != nil {
		next.StudentLoan = prev.StudentLoan.Add(slip.StudentLoan.PlanDeduction)
		next.PostgraduateLoan = prev.PostgraduateLoan.Add(slip.StudentLoan.PostgraduateDeduction)
	}
	next.EmployeePension = prev.EmployeePension.Add(slip.PensionDeduction())
	next.EmployerPension = prev.EmployerPension.Add(slip.EmployerPension())
	next.AttachmentOrders = prev.AttachmentOrders.Add(slip.AttachmentDeduction())
	next.Ni = prev.Ni.Record(slip.Ni)
	return next
}

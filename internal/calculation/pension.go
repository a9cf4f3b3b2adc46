package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ukpaye/payroll-engine/internal/domain"
	pd "github.com/ukpaye/payroll-engine/pkg/decimal"
)

// PensionCalculator calculates workplace pension contributions
type PensionCalculator struct {
	frequency domain.PayFrequency
	data      domain.PensionReferenceData
	logger    Logger
}

// NewPensionCalculator creates a pension calculator over already resolved reference data
func NewPensionCalculator(f domain.PayFrequency, data domain.PensionReferenceData, logger Logger) *PensionCalculator {
	return &PensionCalculator{frequency: f, data: data, logger: loggerOrNop(logger)}
}

// Calculate returns employee and employer contributions for one period.
// On a qualifying earnings basis contributions are charged on pay between
// the lower and upper limits; on a pensionable pay basis on all of it.
// Relief at source deductions are taken net of basic rate relief.
func (pc *PensionCalculator) Calculate(in domain.PensionInputs) (*domain.PensionResult, error) {
	if err := in.Scheme.Validate(); err != nil {
		return nil, err
	}
	if in.PensionablePay.IsNegative() {
		return nil, invalidInput("pensionable_pay", in.PensionablePay, "must not be negative")
	}

	res := &domain.PensionResult{
		Scheme:         in.Scheme.Name,
		Basis:          in.Scheme.Basis,
		TaxTreatment:   in.Scheme.TaxTreatment,
		PensionablePay: in.PensionablePay,
	}

	switch in.Scheme.Basis {
	case domain.QualifyingEarnings:
		lower, err := pc.data.LowerQualifyingEarnings.ForFrequency(pc.frequency)
		if err != nil {
			return nil, err
		}
		upper, err := pc.data.UpperQualifyingEarnings.ForFrequency(pc.frequency)
		if err != nil {
			return nil, err
		}
		res.LowerThreshold = lower
		res.UpperThreshold = upper
		clamped := decimal.Min(decimal.Max(in.PensionablePay, lower), upper)
		res.ContributableEarnings = clamped.Sub(lower)
	case domain.PensionablePay:
		res.ContributableEarnings = in.PensionablePay
	default:
		return nil, invalidInput("pension_basis", in.Scheme.Basis, "unknown basis")
	}

	res.EmployeeContributionGross = pd.RoundPence(res.ContributableEarnings.Mul(in.Scheme.EmployeeRate))
	res.EmployerContribution = pd.RoundPence(res.ContributableEarnings.Mul(in.Scheme.EmployerRate))
	res.EmployeeDeduction = res.EmployeeContributionGross
	if in.Scheme.TaxTreatment == domain.ReliefAtSource {
		net := decimal.NewFromInt(1).Sub(pc.data.BasicRateRelief)
		res.EmployeeDeduction = pd.RoundPence(res.EmployeeContributionGross.Mul(net))
	}

	pc.logger.Debugf("pension: %s", res)
	return res, nil
}

package viability

// Clone returns a copy of p that shares no memory with it.
func (p ProjectData) Clone() ProjectData {
	c := p
	if p.Financing != nil {
		f := *p.Financing
		c.Financing = &f
	}
	return c
}

// WithBlendedTariff returns a copy whose blended tariff equals tariff. The
// surcharge is kept and the energy tariff absorbs the difference.
func (p ProjectData) WithBlendedTariff(tariff float64) ProjectData {
	c := p.Clone()
	c.Consumption.Tariff = tariff - p.Consumption.Surcharge
	return c
}

// WithIrradianceScale returns a copy with irradiance and monthly generation
// both multiplied by factor.
func (p ProjectData) WithIrradianceScale(factor float64) ProjectData {
	c := p.Clone()
	c.Location.Irradiance = p.Location.Irradiance * factor
	c.System.MonthlyGeneration = p.System.MonthlyGeneration * factor
	return c
}

// WithInvestment returns a copy with a different total investment.
func (p ProjectData) WithInvestment(investment float64) ProjectData {
	c := p.Clone()
	c.Financials.Investment = investment
	return c
}

// WithMonthlyGeneration returns a copy with a different generation estimate.
func (p ProjectData) WithMonthlyGeneration(kwh float64) ProjectData {
	c := p.Clone()
	c.System.MonthlyGeneration = kwh
	return c
}

// WithIrradiance returns a copy with a different irradiance, leaving the
// generation estimate untouched.
func (p ProjectData) WithIrradiance(irradiance float64) ProjectData {
	c := p.Clone()
	c.Location.Irradiance = irradiance
	return c
}

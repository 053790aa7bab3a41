package models

import "time"

// ProductCatalog returns the immutable insurance product catalog. Entries are
// seeded here rather than user-created.
func ProductCatalog() []InsuranceProduct {
	return []InsuranceProduct{
		{
			ID:              "prod-carbon-liability",
			Name:            "Carbon Footprint Liability",
			Type:            ProductCarbonLiability,
			BasePremiumRate: 2.5,
			CoverageLimit:   500,
			Description:     "Covers regulatory fines and remediation costs when audited emissions exceed permitted thresholds.",
			Features: []string{
				"Covers emission-overrun penalties",
				"Ledger-verified evidence fast track",
				"Annual compliance audit included",
			},
		},
		{
			ID:              "prod-emission-credit",
			Name:            "Emission Credit Price Protection",
			Type:            ProductEmissionCredit,
			BasePremiumRate: 1.8,
			CoverageLimit:   800,
			Description:     "Hedges losses from carbon credit market price swings for enterprises holding tradable allowances.",
			Features: []string{
				"Settlement against market index",
				"Quarterly mark-to-market reports",
			},
		},
		{
			ID:              "prod-project-yield",
			Name:            "Green Project Yield Insurance",
			Type:            ProductProjectYield,
			BasePremiumRate: 3.2,
			CoverageLimit:   300,
			Description:     "Compensates revenue shortfalls of renewable projects caused by equipment failure or resource variance.",
			Features: []string{
				"Covers photovoltaic and wind output loss",
				"Downtime compensation from day three",
			},
		},
	}
}

// SeedSupplyChain returns the demo supply chain network used as Scope 3
// context for carbon risk assessment.
func SeedSupplyChain() []SupplyChainNode {
	return []SupplyChainNode{
		{
			ID: "sc-1", Name: "Hongda Steel Materials", Role: SupplyChainSupplier,
			CarbonRating: "C", LastAuditDate: date(2023, 9, 1), EmissionFactor: 1.85,
			BlockchainAddress: "0xSupp...A1", Verified: true,
			Transactions: []SupplyChainTransaction{
				{ID: "tx-1", Date: date(2023, 10, 1), Product: "Rebar", Amount: "50 t", CarbonFootprint: 1850, Hash: "0xabc...111"},
				{ID: "tx-2", Date: date(2023, 10, 15), Product: "Wire rod", Amount: "30 t", CarbonFootprint: 1110, Hash: "0xabc...222"},
			},
		},
		{
			ID: "sc-2", Name: "GreenVolt PV Components", Role: SupplyChainSupplier,
			CarbonRating: "A", LastAuditDate: date(2023, 10, 15), EmissionFactor: 0.12,
			BlockchainAddress: "0xSupp...B2", Verified: true,
			Transactions: []SupplyChainTransaction{
				{ID: "tx-3", Date: date(2023, 11, 1), Product: "Monocrystalline panels", Amount: "200 pcs", CarbonFootprint: 240, Hash: "0xdef...333"},
			},
		},
		{
			ID: "sc-3", Name: "Sudden Cold-Chain Logistics", Role: SupplyChainLogistics,
			CarbonRating: "B", LastAuditDate: date(2023, 11, 2), EmissionFactor: 0.89,
			BlockchainAddress: "0xLogi...C3", Verified: false,
		},
		{
			ID: "sc-4", Name: "Ocean International Distribution", Role: SupplyChainDistributor,
			CarbonRating: "B", LastAuditDate: date(2023, 8, 20), EmissionFactor: 0.65,
			BlockchainAddress: "0xDist...D4", Verified: true,
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

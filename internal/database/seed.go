package database

import (
	"log"

	"ambassador-program/internal/models"

	"github.com/shopspring/decimal"
)

// defaultTiers is the initial commission ladder. Tiers are data, not
// code: admins can reshape the ladder at runtime, these rows only seed
// an empty database.
var defaultTiers = []models.Tier{
	{
		Name:            "Bronze",
		MinSales:        0,
		CommissionRate:  decimal.NewFromInt(5),
		RecurringRate:   decimal.NewFromInt(2),
		RecurringMonths: 3,
		Color:           "#CD7F32",
		Icon:            "medal",
		Benefits:        []string{"Código de indicação exclusivo", "Comissão de 5% por venda"},
		DisplayOrder:    1,
	},
	{
		Name:            "Prata",
		MinSales:        10,
		CommissionRate:  decimal.NewFromInt(8),
		RecurringRate:   decimal.NewFromInt(3),
		RecurringMonths: 6,
		Color:           "#C0C0C0",
		Icon:            "award",
		Benefits:        []string{"Comissão de 8% por venda", "Comissão recorrente por 6 meses", "Destaque no diretório"},
		DisplayOrder:    2,
	},
	{
		Name:            "Ouro",
		MinSales:        30,
		CommissionRate:  decimal.NewFromInt(12),
		RecurringRate:   decimal.NewFromInt(5),
		RecurringMonths: 12,
		Color:           "#FFD700",
		Icon:            "crown",
		Benefits:        []string{"Comissão de 12% por venda", "Comissão recorrente por 12 meses", "Convites para eventos exclusivos"},
		DisplayOrder:    3,
	},
}

var defaultAchievements = []models.Achievement{
	{Code: "FIRST_SALE", Name: "Primeira Venda", Description: "Realizou sua primeira venda indicada", RequirementType: models.RequirementReferralCount, Threshold: 1, Points: 50, Icon: "star"},
	{Code: "TEN_SALES", Name: "Dez Vendas", Description: "Alcançou dez vendas indicadas", RequirementType: models.RequirementReferralCount, Threshold: 10, Points: 200, Icon: "trending-up"},
	{Code: "THIRTY_SALES", Name: "Trinta Vendas", Description: "Alcançou trinta vendas indicadas", RequirementType: models.RequirementReferralCount, Threshold: 30, Points: 500, Icon: "trophy"},
	{Code: "HUNDRED_CLICKS", Name: "Divulgadora", Description: "Recebeu cem cliques no seu link", RequirementType: models.RequirementClickCount, Threshold: 100, Points: 100, Icon: "mouse-pointer"},
	{Code: "THOUSAND_POINTS", Name: "Mil Pontos", Description: "Acumulou mil pontos no programa", RequirementType: models.RequirementPointsTotal, Threshold: 1000, Points: 250, Icon: "zap"},
}

// Seed inserts the default tier ladder and achievement catalog when the
// corresponding tables are empty. Safe to run on every startup.
func Seed() error {
	var tierCount int64
	if err := DB.Model(&models.Tier{}).Count(&tierCount).Error; err != nil {
		return err
	}
	if tierCount == 0 {
		for i := range defaultTiers {
			if err := DB.Create(&defaultTiers[i]).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d default tiers", len(defaultTiers))
	}

	var achievementCount int64
	if err := DB.Model(&models.Achievement{}).Count(&achievementCount).Error; err != nil {
		return err
	}
	if achievementCount == 0 {
		for i := range defaultAchievements {
			if err := DB.Create(&defaultAchievements[i]).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d default achievements", len(defaultAchievements))
	}

	return nil
}

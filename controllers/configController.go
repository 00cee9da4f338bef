package controllers

import (
	"strings"

	"condominio-backend/database"
	"condominio-backend/finance"
	"condominio-backend/middlewares"
	"condominio-backend/models"
	"condominio-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Column renames for pointer-DTO PATCH maps (json tag -> db column).
var configRenames = map[string]string{
	"condominio_id": "building_id",
	"bloque":        "block",
	"monto":         "amount",
	"periodicidad":  "periodicity",
	"activa":        "active",
	"nombre":        "name",
	"descripcion":   "description",
	"activo":        "active",
}

// ---- Recurring-charge configs (expensas)

func ListChargeConfigs(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	var configs []models.RecurringChargeConfig
	if err := db.Order("block").Find(&configs).Error; err != nil {
		return err
	}
	return c.JSON(configs)
}

type chargeConfigDTO struct {
	BuildingId  string          `json:"condominio_id" validate:"required"`
	Block       string          `json:"bloque" validate:"required"`
	Amount      decimal.Decimal `json:"monto"`
	Periodicity string          `json:"periodicidad"`
	Active      *bool           `json:"activa"`
}

func CreateChargeConfig(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var dto chargeConfigDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	periodicity := dto.Periodicity
	if periodicity == "" {
		periodicity = models.PeriodicityMonthly
	}
	cfg := models.RecurringChargeConfig{
		BuildingId:  dto.BuildingId,
		Block:       strings.ToUpper(dto.Block),
		Amount:      dto.Amount.Round(2),
		Periodicity: periodicity,
		Active:      true,
	}
	if dto.Active != nil {
		cfg.Active = *dto.Active
	}

	// One config per (building, block); the unique index backs this up.
	var exists int64
	db.Model(&models.RecurringChargeConfig{}).
		Where("building_id = ? AND block = ?", cfg.BuildingId, cfg.Block).
		Count(&exists)
	if exists > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "ya existe una configuración de expensa para ese bloque",
		})
	}

	if err := db.Create(&cfg).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cfg)
}

type chargeConfigPatchDTO struct {
	Block       *string          `json:"bloque"`
	Amount      *decimal.Decimal `json:"monto"`
	Periodicity *string          `json:"periodicidad"`
	Active      *bool            `json:"activa"`
}

func UpdateChargeConfig(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var cfg models.RecurringChargeConfig
	if err := db.Where("id = ?", c.Params("id")).First(&cfg).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}

	var dto chargeConfigPatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)
	if dto.Block != nil {
		upper := strings.ToUpper(*dto.Block)
		dto.Block = &upper
	}

	updates := utils.UpdatesFromPtrDTO(&dto, configRenames)
	if len(updates) == 0 {
		return c.JSON(cfg)
	}
	if err := db.Model(&cfg).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(cfg)
}

func DeleteChargeConfig(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	res := db.Where("id = ?", c.Params("id")).Delete(&models.RecurringChargeConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return financeError(c, finance.ErrNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Fine catalog (multas)

func ListFineTypes(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	var types []models.FineType
	if err := db.Order("name").Find(&types).Error; err != nil {
		return err
	}
	return c.JSON(types)
}

type fineTypeDTO struct {
	Name        string          `json:"nombre" validate:"required"`
	Description string          `json:"descripcion"`
	Amount      decimal.Decimal `json:"monto"`
	Active      *bool           `json:"activo"`
}

func CreateFineType(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var dto fineTypeDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	fineType := models.FineType{
		Name:        dto.Name,
		Description: dto.Description,
		Amount:      dto.Amount.Round(2),
		Active:      true,
	}
	if dto.Active != nil {
		fineType.Active = *dto.Active
	}
	if err := db.Create(&fineType).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "no se pudo crear el tipo de multa",
			"error":  err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fineType)
}

type fineTypePatchDTO struct {
	Name        *string          `json:"nombre"`
	Description *string          `json:"descripcion"`
	Amount      *decimal.Decimal `json:"monto"`
	Active      *bool            `json:"activo"`
}

func UpdateFineType(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var fineType models.FineType
	if err := db.Where("id = ?", c.Params("id")).First(&fineType).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}

	var dto fineTypePatchDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)

	updates := utils.UpdatesFromPtrDTO(&dto, configRenames)
	if len(updates) == 0 {
		return c.JSON(fineType)
	}
	if err := db.Model(&fineType).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(fineType)
}

func DeleteFineType(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	res := db.Where("id = ?", c.Params("id")).Delete(&models.FineType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return financeError(c, finance.ErrNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Applied fines

// ListFineApplications lists fines the next generation run will bill, newest
// first. Fines whose invoice was deleted keep their billed period and stay
// out of this list.
func ListFineApplications(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	var fines []models.FineApplication
	err := db.Preload("FineType").Preload("Unit").
		Where("invoice_id IS NULL AND billed_period IS NULL").
		Order("applied_at DESC").
		Find(&fines).Error
	if err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(fines))
	for i := range fines {
		fine := &fines[i]
		out = append(out, fiber.Map{
			"id":                fine.Id,
			"vivienda_codigo":   fine.Unit.Code,
			"vivienda_bloque":   fine.Unit.Block,
			"multa_nombre":      fine.FineType.Name,
			"multa_descripcion": fine.FineType.Description,
			"descripcion":       fine.Description,
			"monto":             utils.Money(fine.Amount),
			"fecha_aplicacion":  fine.AppliedAt.Format("2006-01-02"),
			"factura_id":        fine.InvoiceId,
			"periodo_facturado": fine.BilledPeriod,
		})
	}
	return c.JSON(out)
}

type fineApplicationDTO struct {
	UnitId      string           `json:"vivienda_id" validate:"required"`
	FineTypeId  string           `json:"multa_config_id" validate:"required"`
	Description string           `json:"descripcion"`
	Amount      *decimal.Decimal `json:"monto"`
}

func CreateFineApplication(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var dto fineApplicationDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	var fineType models.FineType
	if err := db.Where("id = ?", dto.FineTypeId).First(&fineType).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}
	if !fineType.Active {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "El tipo de multa seleccionado está inactivo.",
		})
	}
	var unit models.Unit
	if err := db.Where("id = ?", dto.UnitId).First(&unit).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}

	// Description and amount default from the catalog entry.
	amount := fineType.Amount
	if dto.Amount != nil {
		amount = dto.Amount.Round(2)
	}
	description := dto.Description
	if description == "" {
		description = fineType.Description
	}
	if description == "" {
		description = fineType.Name
	}

	fine := models.FineApplication{
		UnitId:      unit.Id,
		FineTypeId:  fineType.Id,
		Description: description,
		Amount:      amount,
	}
	if err := db.Create(&fine).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fine)
}

// DeleteFineApplication removes an unbilled fine. Fines already attached to
// an invoice are immutable.
func DeleteFineApplication(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var fine models.FineApplication
	if err := db.Where("id = ?", c.Params("id")).First(&fine).Error; err != nil {
		return financeError(c, finance.ErrNotFound)
	}
	if fine.Billed() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "La multa ya fue incluida en una factura y no puede eliminarse.",
		})
	}
	if err := db.Delete(&fine).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

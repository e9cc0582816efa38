package memory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/entity"
)

// Seed registros iniciales del modo memoria, leídos de STORAGE_SEED_FILE (YAML, JSON o TOML).
type Seed struct {
	BlockTypes   []SeedBlockType   `mapstructure:"block_types"`
	MoldTypes    []SeedMoldType    `mapstructure:"mold_types"`
	RawMaterials []SeedRawMaterial `mapstructure:"raw_materials"`
}

// SeedBlockType tipo de bloque. El porcentaje viaja como texto para no perder precisión.
type SeedBlockType struct {
	ID                    string `mapstructure:"id"`
	Name                  string `mapstructure:"name"`
	RawMaterialPercentage string `mapstructure:"raw_material_percentage"`
}

type SeedMoldType struct {
	ID               string `mapstructure:"id"`
	Name             string `mapstructure:"name"`
	PiecesPerPackage int    `mapstructure:"pieces_per_package"`
}

type SeedRawMaterial struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// LoadSeed lee el archivo; el formato sale de la extensión.
func LoadSeed(path string) (*Seed, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer seed %s: %w", path, err)
	}
	var seed Seed
	if err := v.Unmarshal(&seed); err != nil {
		return nil, fmt.Errorf("decodificar seed %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed carga los registros del seed. No aplica nada si alguna entrada es inválida.
func (s *Store) ApplySeed(seed *Seed) error {
	if seed == nil {
		return nil
	}
	blockTypes := make([]entity.BlockType, 0, len(seed.BlockTypes))
	for _, bt := range seed.BlockTypes {
		if bt.ID == "" {
			return fmt.Errorf("seed: tipo de bloque sin id")
		}
		out := entity.BlockType{ID: bt.ID, Name: bt.Name}
		if bt.RawMaterialPercentage != "" {
			pct, err := decimal.NewFromString(bt.RawMaterialPercentage)
			if err != nil {
				return fmt.Errorf("seed: porcentaje del tipo de bloque %q: %w", bt.ID, err)
			}
			out.RawMaterialPercentage = &pct
		}
		blockTypes = append(blockTypes, out)
	}
	for _, mt := range seed.MoldTypes {
		if mt.ID == "" || mt.PiecesPerPackage < 0 {
			return fmt.Errorf("seed: tipo de molde inválido %q", mt.ID)
		}
	}
	for _, rm := range seed.RawMaterials {
		if rm.ID == "" {
			return fmt.Errorf("seed: materia prima sin id")
		}
	}

	for _, bt := range blockTypes {
		s.PutBlockType(bt)
	}
	for _, mt := range seed.MoldTypes {
		s.PutMoldType(entity.MoldType{ID: mt.ID, Name: mt.Name, PiecesPerPackage: mt.PiecesPerPackage})
	}
	for _, rm := range seed.RawMaterials {
		s.PutRawMaterial(entity.RawMaterial{ID: rm.ID, Name: rm.Name})
	}
	return nil
}

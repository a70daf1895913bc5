package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de patrimônio aceitos pelo cadastro.
const (
	TipoMobiliario      = "mobiliario"
	TipoEletrodomestico = "eletrodomestico"
	TipoInformatica     = "informatica"
	TipoEscritorio      = "escritorio"
	TipoOutros          = "outros"
)

// Status de conservação de um patrimônio.
const (
	StatusBom         = "bom"
	StatusDanificado  = "danificado"
	StatusInutilizado = "inutilizado"
)

type Usuario struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Password  string     `gorm:"not null" json:"-"`
	Nome      string     `json:"nome"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Setor struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Nome      string     `gorm:"not null" json:"nome"`
	Sigla     string     `gorm:"size:10;not null" json:"sigla"`
	Campus    string     `gorm:"not null" json:"campus"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`

	Salas []Sala `gorm:"foreignKey:SetorID" json:"salas,omitempty"`
}

type Sala struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Numero    int        `gorm:"not null" json:"numero"`
	SetorID   int64      `gorm:"not null;index" json:"setor_id"`
	Setor     *Setor     `gorm:"foreignKey:SetorID" json:"setor,omitempty"`
	CreatedAt *time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`

	Inventarios  []Inventario  `gorm:"foreignKey:SalaAtualID" json:"inventarios,omitempty"`
	Conferencias []Conferencia `gorm:"foreignKey:SalaID" json:"conferencias,omitempty"`
}

type Inventario struct {
	ID              int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Codigo          string           `gorm:"size:50;uniqueIndex;not null" json:"codigo"`
	Descricao       string           `gorm:"size:1000;not null" json:"descricao"`
	Tipo            string           `gorm:"size:20;not null" json:"tipo"`
	Status          string           `gorm:"size:20;not null;default:'bom'" json:"status"`
	ValorAquisicao  *decimal.Decimal `gorm:"type:decimal(14,2)" json:"valor_aquisicao,omitempty"`
	ValorDepreciado *decimal.Decimal `gorm:"type:decimal(14,2)" json:"valor_depreciado,omitempty"`
	NumeroSerie     *string          `json:"numero_serie,omitempty"`
	Obs             *string          `gorm:"type:text" json:"obs,omitempty"`
	SalaAtualID     *int64           `gorm:"index" json:"sala_atual_id,omitempty"`
	SalaAtual       *Sala            `gorm:"foreignKey:SalaAtualID" json:"sala_atual,omitempty"`
	CreatedAt       *time.Time       `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt       *time.Time       `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type Conferencia struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SalaID     int64      `gorm:"not null;index" json:"sala_id"`
	Sala       *Sala      `gorm:"foreignKey:SalaID" json:"sala,omitempty"`
	DataInicio time.Time  `gorm:"autoCreateTime" json:"data_inicio"`
	DataFim    *time.Time `json:"data_fim,omitempty"`
	Ano        int        `gorm:"not null" json:"ano"`
	UsuarioID  int64      `gorm:"not null" json:"usuario_id"`
	Usuario    *Usuario   `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
	Finalizada bool       `gorm:"default:false" json:"finalizada"`

	Itens []ItemConferencia `gorm:"foreignKey:ConferenciaID" json:"itens,omitempty"`
}

type ItemConferencia struct {
	ID               int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ConferenciaID    int64        `gorm:"not null;uniqueIndex:idx_conferencia_inventario" json:"conferencia_id"`
	InventarioID     int64        `gorm:"not null;uniqueIndex:idx_conferencia_inventario" json:"inventario_id"`
	Inventario       *Inventario  `gorm:"foreignKey:InventarioID" json:"inventario,omitempty"`
	StatusConferido  string       `gorm:"size:20;not null" json:"status_conferido"`
	Observacao       *string      `gorm:"type:text" json:"observacao,omitempty"`
	ImagemObservacao *string      `json:"imagem_observacao,omitempty"`
	// Definido apenas na primeira confirmação; reconfirmar não altera.
	DataConferencia time.Time `gorm:"autoCreateTime" json:"data_conferencia"`
}

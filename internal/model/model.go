package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Run{},
	&FileResult{},
}

// Run is one batch over a target list
type Run struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	StartTime time.Time      `json:"startTime" gorm:"index:idx_run_start_time"`
	EndTime   time.Time      `json:"endTime"`
	// MachineName is duplicated out of the snapshot so runs can be filtered per arm
	MachineName string         `json:"machineName" gorm:"size:127;index:idx_run_machine_name"`
	Machine     datatypes.JSON `json:"machine"`
	FilesOK     int            `json:"filesOk"`
	FilesFailed int            `json:"filesFailed"`
	Files       []FileResult   `json:"files" gorm:"foreignKey:RunID"`
}

func (*Run) TableName() string {
	return "runs"
}

// FileResult is the outcome of translating one target file
type FileResult struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID      string         `json:"runId" gorm:"size:36;index:idx_file_result_run_id"`
	Run        Run            `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Target     string         `json:"target" gorm:"size:255"`
	InputPath  string         `json:"inputPath" gorm:"size:1024"`
	OutputPath string         `json:"outputPath" gorm:"size:1024"`
	Status     string         `json:"status" gorm:"size:16;index:idx_file_result_status"`
	Error      string         `json:"error"`
	StartTime  time.Time      `json:"startTime"`
	DurationMs float64        `json:"durationMs"`
	LinesIn    int            `json:"linesIn"`
	LinesOut   int            `json:"linesOut"`
	Motions    int            `json:"motions"`
	Chords     int            `json:"chords"`
	PathLength float64        `json:"pathLength"`
	Envelope   datatypes.JSON `json:"envelope"` // [minX, minY, maxX, maxY] or null
}

func (*FileResult) TableName() string {
	return "file_results"
}

package inmemdb

import (
	"sync"

	"github.com/ascend-bim/gradebook/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	// studentTable keeps the roster in display order.
	studentTable struct {
		rows  []*student.Student
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{},
	}
	return db, nil
}

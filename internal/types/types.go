// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import (
	"fmt"
	"strconv"
)

// Parent represents a row of the Parent table.
//
// The JSON keys mirror the column names because the browser client reads
// rows back exactly as the database names them.
type Parent struct {
	ID   int64  `json:"parent_id"`
	Name string `json:"parent_name"`
}

// Student represents a row of the Student table.
//
// ParentID is a plain value: nothing checks that the parent exists.
type Student struct {
	ID       int64  `json:"student_id"`
	Name     string `json:"student_name"`
	Age      int    `json:"student_age"`
	ParentID int64  `json:"parent_id"`
	Address  string `json:"student_address"`
}

// ParentForm is the request body accepted by the parent add and update
// endpoints.
//
// Struct tags serve two purposes:
//
//  1. form:"..." — the field name in the multipart / urlencoded body
//     (and in JSON bodies, which are flattened to the same shape).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the value must be present and non-empty.
//
// The tags ARE the required-field schema for the entity: handlers never
// check fields one by one.
type ParentForm struct {
	Name string `form:"parent_name" validate:"required"`
}

// Parent converts the validated form into a Parent row (without an id).
func (f ParentForm) Parent() Parent {
	return Parent{Name: f.Name}
}

// StudentForm is the request body accepted by the student add and update
// endpoints.
//
// Age and ParentID arrive as text from a form. They are kept as strings so
// that "required" means "present" (an age of "0" is a value, not a missing
// field) and "number" guarantees Student() can parse them.
type StudentForm struct {
	Name     string `form:"student_name"    validate:"required"`
	Age      string `form:"student_age"     validate:"required,number"`
	ParentID string `form:"parent_id"       validate:"required,number"`
	Address  string `form:"student_address" validate:"required"`
}

// Student converts the validated form into a Student row (without an id).
// It fails only if the numeric fields overflow, since validation already
// rejected anything that is not made of digits.
func (f StudentForm) Student() (Student, error) {
	age, err := strconv.Atoi(f.Age)
	if err != nil {
		return Student{}, fmt.Errorf("student_age: %w", err)
	}

	parentID, err := strconv.ParseInt(f.ParentID, 10, 64)
	if err != nil {
		return Student{}, fmt.Errorf("parent_id: %w", err)
	}

	return Student{
		Name:     f.Name,
		Age:      age,
		ParentID: parentID,
		Address:  f.Address,
	}, nil
}

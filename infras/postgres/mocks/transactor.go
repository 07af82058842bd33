package mocks

import (
	"context"

	"hostel/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type transactorImpl struct {
	commits   int
	rollbacks int
}

// Transactor runs the callback with a nil transaction and counts outcomes.
type Transactor interface {
	postgres.Transactor
	Commits() int
	Rollbacks() int
}

// WithTx implements postgres.Transactor.
func (t *transactorImpl) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := fn(nil); err != nil {
		t.rollbacks++

		return err
	}

	t.commits++

	return nil
}

func (t *transactorImpl) Commits() int {
	return t.commits
}

func (t *transactorImpl) Rollbacks() int {
	return t.rollbacks
}

func NewTransactor() Transactor {
	return &transactorImpl{}
}

package repository

import "taskboard/internal/domain"

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.TransientStoreError{Op: op, Err: err}
}

func taskNotFound(id int64) error {
	return &domain.NotFoundError{Resource: "task", ID: id}
}

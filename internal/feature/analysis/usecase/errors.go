package usecase

import "errors"

// ErrNoDataInRange is returned when the date window leaves no records to analyse.
// It is raised before the trend model is invoked.
var ErrNoDataInRange = errors.New("no data in range")

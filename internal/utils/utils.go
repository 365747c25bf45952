package utils

import "time"

// Retry calls fn up to attempts times, sleeping delay after each failure,
// and returns the last error if every attempt fails.
func Retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return err
}

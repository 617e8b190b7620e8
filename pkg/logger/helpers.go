package logger

import "fmt"

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, duration float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration,
	}

	if statusCode >= 200 && statusCode < 300 {
		GetLogger().InfoWithFields("HTTP request completed", fields)
	} else if statusCode >= 400 && statusCode < 500 {
		GetLogger().WarnWithFields("HTTP request client error", fields)
	} else if statusCode >= 500 {
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	}
}

// LogBatch logs the outcome of one batch-detail request
func LogBatch(batch, total, size int, success bool, err error) {
	fields := map[string]interface{}{
		"batch":      batch,
		"batches":    total,
		"batch_size": size,
		"success":    success,
	}

	logger := GetLogger().WithFields(fields)

	if err != nil {
		logger.WithError(err).Error("Batch failed")
	} else if success {
		logger.Info("Batch completed")
	} else {
		logger.Warn("Batch skipped")
	}
}

// LogFetchProgress logs fetch loop progress
func LogFetchProgress(fetched, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(fetched) / float64(total) * 100
	}

	GetLogger().WithFields(map[string]interface{}{
		"fetched":    fetched,
		"total":      total,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Fetch progress")
}

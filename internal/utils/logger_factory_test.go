package utils_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdetails/internal/utils"
)

const testLogMessageConstant = "logger_factory_test_message"

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		settings            utils.LoggerSettings
		expectError         bool
		expectStructuredLog bool
		expectLogged        bool
	}{
		{
			name:                "structured_debug",
			settings:            utils.LoggerSettings{Level: utils.LogLevelDebug, Format: utils.LogFormatStructured},
			expectStructuredLog: true,
			expectLogged:        true,
		},
		{
			name:         "console_info_mixed_case",
			settings:     utils.LoggerSettings{Level: "INFO", Format: " Console "},
			expectLogged: true,
		},
		{
			name:                "warn_filters_info",
			settings:            utils.LoggerSettings{Level: utils.LogLevelWarn, Format: utils.LogFormatStructured},
			expectStructuredLog: true,
		},
		{
			name:        "unsupported_level",
			settings:    utils.LoggerSettings{Level: "verbose", Format: utils.LogFormatStructured},
			expectError: true,
		},
		{
			name:        "unsupported_format",
			settings:    utils.LoggerSettings{Level: utils.LogLevelInfo, Format: "xml"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			logFilePath := filepath.Join(testInstance.TempDir(), "git-details.log")
			settings := testCase.settings
			settings.FilePath = logFilePath

			logger, creationError := utils.NewLoggerFactory().CreateLogger(settings)
			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}
			require.NoError(testInstance, creationError)

			logger.Info(testLogMessageConstant)
			_ = logger.Sync()

			contents, readError := os.ReadFile(logFilePath)
			require.NoError(testInstance, readError)
			trimmedContents := strings.TrimSpace(string(contents))

			if !testCase.expectLogged {
				require.Empty(testInstance, trimmedContents)
				return
			}

			require.Contains(testInstance, trimmedContents, testLogMessageConstant)
			require.Equal(testInstance, testCase.expectStructuredLog, json.Valid([]byte(trimmedContents)))
		})
	}
}

// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"io"
	"os"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Config holds tracing configuration.
type Config struct {
	// Enabled controls whether spans are recorded and exported.
	Enabled bool

	// ServiceName identifies this program in traces.
	ServiceName string

	// ServiceVersion is the application version.
	ServiceVersion string

	// Exporter selects where finished spans go: "stdout" or "none".
	Exporter string

	// Output is where the stdout exporter writes (default: os.Stderr).
	Output io.Writer

	// PrettyPrint indents exported spans.
	PrettyPrint bool
}

// DefaultConfig returns a disabled tracing configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		ServiceName: "cmdchain",
		Exporter:    ExporterStdout,
		Output:      os.Stderr,
	}
}

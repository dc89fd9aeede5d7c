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

/*
Package tracing sets up OpenTelemetry tracing for cmdchain and carries the
correlation ID that ties a master command to the members it triggers.

NewProvider installs the global tracer provider. When tracing is disabled a
no-op provider is installed, so instrumented code never needs to check.

	p, err := tracing.NewProvider(tracing.Config{
	    Enabled:     true,
	    ServiceName: "cmdchain",
	    Exporter:    tracing.ExporterStdout,
	    Output:      os.Stderr,
	})
	if err != nil {
	    return err
	}
	defer p.Shutdown(ctx)
*/
package tracing

// Copyright 2025 RAGDocs Authors
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


package ai

import "errors"

var (
	// ErrGeneratorDisabled is returned by an AnswerGenerator or QueryEnhancer
	// when no text-generation model is configured.
	ErrGeneratorDisabled = errors.New("text-generation service not configured")

	// ErrMalformedResponse is returned when the text-generation service's
	// structured output could not be parsed even after repair attempts.
	ErrMalformedResponse = errors.New("malformed response from text-generation service")
)

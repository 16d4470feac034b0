// Copyright 2025 Poiesic Systems
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


// Package openai implements the alternate embedding provider family on top
// of OpenAI-compatible embeddings APIs such as AI/ML API.
//
// The langchaingo OpenAI client does the HTTP work. The configured endpoint
// is the full embeddings URL; the trailing "/embeddings" is stripped because
// the client appends it.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithProvider("aimlapi"),
//	    ai.WithAlternateAPIKey(os.Getenv("AIMLAPI_KEY")),
//	)
//
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vector, err := embedder.EmbedText(ctx, "sample text")
package openai

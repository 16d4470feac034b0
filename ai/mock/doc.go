// Package mock provides a test double for ai.Embedder.
//
// The mock lets tests run without external AI services and gives controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Default deterministic vectors
//	primary := mock.NewMockEmbedder("embedding-001")
//	vector, err := primary.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	failing := mock.NewMockEmbedder("embedding-001").
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return nil, errors.New("quota exceeded")
//	    })
//
//	// Check call counts
//	count := failing.CallCount()
//
// MockEmbedder is safe for concurrent use so it can back worker-pool tests.
package mock

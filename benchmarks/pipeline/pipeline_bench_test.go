package pipeline_bench

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/domain"
	"github.com/osse101/CommentGarden_Go/internal/progression"
	"github.com/osse101/CommentGarden_Go/internal/queue"
	"github.com/osse101/CommentGarden_Go/internal/repository"
)

var sampleComments = []string{
	"This is amazing, thank you so much for sharing!",
	"I disagree with this take but appreciate the effort",
	"What time does the stream start tomorrow?",
	"you are an idiot and this is garbage",
	"Great tutorial, learned a lot :)",
	"meh",
}

// newCascade runs only the keyword tier, so results are deterministic
func newCascade() *detection.Cascade {
	return detection.NewDefaultCascade(detection.DefaultConfig(), nil, nil)
}

func BenchmarkCascade_Analyze(b *testing.B) {
	cascade := newCascade()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cascade.Analyze(ctx, sampleComments[i%len(sampleComments)])
	}
}

func BenchmarkPipeline_EnqueueAndApply(b *testing.B) {
	ctx := context.Background()
	service := progression.NewService(repository.NewMemoryProgression(),
		progression.NewBandEstimator(rand.NewPCG(1, 2)), nil)
	if _, err := service.PlantTree(ctx, string(domain.TreeTypeApple)); err != nil {
		b.Fatal(err)
	}

	// Without a dispatcher every Enqueue drains synchronously
	q := queue.New(newCascade(), service, queue.WithRetention(time.Nanosecond))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.Enqueue(ctx, domain.Comment{Text: sampleComments[i%len(sampleComments)]}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKeywordScorer_Parallel(b *testing.B) {
	scorer := detection.NewKeywordScorer()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = scorer.Score(sampleComments[i%len(sampleComments)])
			i++
		}
	})
}

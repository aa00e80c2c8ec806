// Package qdrant implements retrieval.Store on top of a Qdrant vector
// database reached over gRPC. Each retrieval partition maps to one
// Qdrant collection; tenant scoping is enforced with a payload filter on
// every search. Queries are embedded via the pluggable Embedder.
package qdrant

import (
	"context"
	"fmt"
	"sort"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hupe1980/healthmesh/retrieval"
)

// Embedder converts text into a vector in the collection's space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is a qdrant-backed retrieval.Store.
type Store struct {
	points      pb.PointsClient
	collections pb.CollectionsClient
	embedder    Embedder
}

// New connects to a Qdrant instance and returns a Store using the given
// embedder for query vectors.
func New(addr string, embedder Embedder) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}
	return &Store{
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		embedder:    embedder,
	}, nil
}

// EnsureCollection creates the collection for a partition if needed.
// Cosine distance matches the embedder outputs used throughout.
func (s *Store) EnsureCollection(ctx context.Context, partition string, vectorSize uint64) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: partition,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", partition, err)
	}
	return nil
}

// Upsert embeds and stores snippets in a partition, tagged with the
// owning tenant so Search can scope results.
func (s *Store) Upsert(ctx context.Context, partition, tenantID string, snippets []retrieval.Snippet) error {
	points := make([]*pb.PointStruct, len(snippets))
	for i, snippet := range snippets {
		vector, err := s.embedder.Embed(ctx, snippet.Content)
		if err != nil {
			return fmt.Errorf("failed to embed snippet %s: %w", snippet.ID, err)
		}

		payload := map[string]*pb.Value{
			"content":   {Kind: &pb.Value_StringValue{StringValue: snippet.Content}},
			"tenant_id": {Kind: &pb.Value_StringValue{StringValue: tenantID}},
		}
		for k, v := range snippet.Metadata {
			if sv, ok := v.(string); ok {
				payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: sv}}
			}
		}

		points[i] = &pb.PointStruct{
			Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: snippet.ID}},
			Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: vector}}},
			Payload: payload,
		}
	}

	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{CollectionName: partition, Points: points})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search implements retrieval.Store. The query is embedded once and each
// partition is searched with a tenant filter; hits are merged, ordered
// by ascending distance and truncated to limit.
func (s *Store) Search(ctx context.Context, query string, partitions []string, tenantID string, limit int) ([]retrieval.Snippet, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: &pb.Condition_Field{
				Field: &pb.FieldCondition{
					Key:   "tenant_id",
					Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: tenantID}},
				},
			},
		}},
	}

	var results []retrieval.Snippet
	for _, partition := range partitions {
		resp, err := s.points.Search(ctx, &pb.SearchPoints{
			CollectionName: partition,
			Vector:         vector,
			Limit:          uint64(limit),
			Filter:         filter,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search partition %s: %w", partition, err)
		}
		for _, point := range resp.Result {
			results = append(results, toSnippet(point))
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// toSnippet converts a scored point. Qdrant reports cosine similarity
// (higher = closer); the contract wants ascending distance.
func toSnippet(point *pb.ScoredPoint) retrieval.Snippet {
	metadata := map[string]any{}
	var content string
	for k, v := range point.Payload {
		sv, ok := v.GetKind().(*pb.Value_StringValue)
		if !ok {
			continue
		}
		if k == "content" {
			content = sv.StringValue
			continue
		}
		metadata[k] = sv.StringValue
	}

	var id string
	if uid := point.Id.GetUuid(); uid != "" {
		id = uid
	} else {
		id = fmt.Sprintf("%d", point.Id.GetNum())
	}

	return retrieval.Snippet{
		ID:       id,
		Content:  content,
		Metadata: metadata,
		Distance: float64(1 - point.Score),
	}
}

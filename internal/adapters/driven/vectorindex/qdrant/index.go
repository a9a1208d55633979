// Package qdrant provides a vector index backed by a Qdrant collection over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default connection values.
const (
	DefaultPort       = 6334
	DefaultCollection = "edubridge"
)

// Payload keys.
const (
	keySegmentID  = "segment_id"
	keyDocumentID = "document_id"
	keyPage       = "page"
	keyPosition   = "position"
	keyStart      = "start"
	keyEnd        = "end"
	keyText       = "text"
	keyModel      = "model"
)

// scrollPage is the number of points fetched per scroll request.
const scrollPage = 256

// Config holds connection settings.
type Config struct {
	Host       string
	Port       int
	Collection string

	// Model is the embedding model the index is built with.
	Model string
}

// Index stores segments as Qdrant points.
type Index struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	location    string
	model       string
}

// New dials Qdrant. The collection is created on the first Add.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("qdrant: %w: host is required", domain.ErrVectorIndexUnavailable)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: %w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	idx := newIndex(pb.NewPointsClient(conn), pb.NewCollectionsClient(conn), cfg)
	idx.conn = conn
	idx.location = addr
	return idx, nil
}

func newIndex(points pb.PointsClient, collections pb.CollectionsClient, cfg Config) *Index {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	return &Index{
		points:      points,
		collections: collections,
		collection:  cfg.Collection,
		model:       cfg.Model,
	}
}

// dimensions returns the collection's vector size, or 0 if it does not exist.
func (idx *Index) dimensions(ctx context.Context) (int, error) {
	exists, err := idx.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{CollectionName: idx.collection})
	if err != nil {
		return 0, fmt.Errorf("qdrant: %w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	if !exists.GetResult().GetExists() {
		return 0, nil
	}
	info, err := idx.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: idx.collection})
	if err != nil {
		return 0, fmt.Errorf("qdrant: collection info: %w", err)
	}
	params := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams()
	return int(params.GetSize()), nil
}

// Add upserts one point per record. A record whose segment ID is already
// stored replaces that point.
func (idx *Index) Add(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return idx.Replace(ctx, domain.Replacement{Records: records})
}

// Replace upserts the new points first and only then deletes the points
// they supersede, so a failed upsert leaves the old points searchable.
// Replacing everything with vectors of a new size recreates the collection.
func (idx *Index) Replace(ctx context.Context, r domain.Replacement) error {
	dims, err := recordDimensions(r.Records)
	if err != nil {
		return err
	}
	stored, err := idx.dimensions(ctx)
	if err != nil {
		return err
	}

	if r.All && stored != 0 && (len(r.Records) == 0 || dims != stored) {
		if _, err := idx.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: idx.collection}); err != nil {
			return fmt.Errorf("qdrant: reset: %w", err)
		}
		stored = 0
	}

	ids := make([]*pb.PointId, len(r.Records))
	if len(r.Records) > 0 {
		if err := idx.ensureCollection(ctx, dims, stored); err != nil {
			return err
		}
		points := make([]*pb.PointStruct, len(r.Records))
		for i, rec := range r.Records {
			ids[i] = &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(rec.Segment.ID)}}
			points[i] = &pb.PointStruct{
				Id:      ids[i],
				Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: rec.Vector}}},
				Payload: idx.payload(rec.Segment),
			}
		}
		wait := true
		_, err = idx.points.Upsert(ctx, &pb.UpsertPoints{
			CollectionName: idx.collection,
			Wait:           &wait,
			Points:         points,
		})
		if err != nil {
			return fmt.Errorf("qdrant: upsert: %w", err)
		}
	}

	if stored == 0 || (!r.All && len(r.Documents) == 0) {
		return nil
	}
	filter := &pb.Filter{}
	if !r.All {
		filter.Must = []*pb.Condition{documentCondition(r.Documents)}
	}
	if len(ids) > 0 {
		filter.MustNot = []*pb.Condition{{
			ConditionOneOf: &pb.Condition_HasId{HasId: &pb.HasIdCondition{HasId: ids}},
		}}
	}
	wait := true
	_, err = idx.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: idx.collection,
		Wait:           &wait,
		Points:         &pb.PointsSelector{PointsSelectorOneOf: &pb.PointsSelector_Filter{Filter: filter}},
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete superseded points: %w", err)
	}
	return nil
}

// ensureCollection creates the collection when stored is 0, and otherwise
// checks that dims matches it.
func (idx *Index) ensureCollection(ctx context.Context, dims, stored int) error {
	switch {
	case stored == 0:
		_, err := idx.collections.Create(ctx, &pb.CreateCollection{
			CollectionName: idx.collection,
			VectorsConfig: &pb.VectorsConfig{Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{Size: uint64(dims), Distance: pb.Distance_Cosine},
			}},
		})
		if err != nil {
			return fmt.Errorf("qdrant: create collection: %w", err)
		}
	case stored != dims:
		return fmt.Errorf("qdrant: %w: records have %d dimensions, collection has %d",
			domain.ErrIndexMismatch, dims, stored)
	}
	return nil
}

// recordDimensions checks that every record carries a vector of one size.
func recordDimensions(records []domain.EmbeddingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	dims := len(records[0].Vector)
	for i, r := range records {
		if len(r.Vector) == 0 {
			return 0, fmt.Errorf("qdrant: %w: record %d has no vector", domain.ErrInvalidInput, i)
		}
		if len(r.Vector) != dims {
			return 0, fmt.Errorf("qdrant: %w: record %d has %d dimensions, expected %d",
				domain.ErrIndexMismatch, i, len(r.Vector), dims)
		}
	}
	return dims, nil
}

// Query searches the collection by cosine similarity.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredSegment, error) {
	if k <= 0 {
		return []domain.ScoredSegment{}, nil
	}
	dims, err := idx.dimensions(ctx)
	if err != nil {
		return nil, err
	}
	if dims == 0 {
		return []domain.ScoredSegment{}, nil
	}
	if len(vector) != dims {
		return nil, fmt.Errorf("qdrant: %w: query has %d dimensions, collection has %d",
			domain.ErrIndexMismatch, len(vector), dims)
	}

	resp, err := idx.points.Search(ctx, &pb.SearchPoints{
		CollectionName: idx.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}

	hits := make([]domain.ScoredSegment, 0, len(resp.GetResult()))
	for _, pt := range resp.GetResult() {
		hits = append(hits, domain.ScoredSegment{
			Segment: segment(pt.GetPayload()),
			Score:   float64(pt.GetScore()),
		})
	}
	return hits, nil
}

// DeleteDocument removes every point whose payload names documentID.
func (idx *Index) DeleteDocument(ctx context.Context, documentID string) error {
	return idx.Replace(ctx, domain.Replacement{Documents: []string{documentID}})
}

// Reset drops the collection.
func (idx *Index) Reset(ctx context.Context) error {
	return idx.Replace(ctx, domain.Replacement{All: true})
}

// Stats scrolls the collection to count points per document.
func (idx *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats := domain.IndexStats{
		Backend:   string(domain.IndexBackendQdrant),
		Location:  idx.location + "/" + idx.collection,
		Documents: []string{},
		Model:     idx.model,
	}
	dims, err := idx.dimensions(ctx)
	if err != nil || dims == 0 {
		return stats, err
	}
	stats.Dimensions = dims

	seen := make(map[string]struct{})
	err = idx.scroll(ctx, func(payload map[string]*pb.Value) {
		stats.Records++
		if m := payload[keyModel].GetStringValue(); m != "" {
			stats.Model = m
		}
		doc := payload[keyDocumentID].GetStringValue()
		if _, ok := seen[doc]; !ok {
			seen[doc] = struct{}{}
			stats.Documents = append(stats.Documents, doc)
		}
	})
	sort.Strings(stats.Documents)
	return stats, err
}

// Persist is a no-op: upserts wait for the write to be applied.
func (idx *Index) Persist(_ context.Context) error {
	return nil
}

// Load checks that the stored points were built by the configured model.
func (idx *Index) Load(ctx context.Context) error {
	if idx.model == "" {
		return nil
	}
	dims, err := idx.dimensions(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexPersistence, err)
	}
	if dims == 0 {
		return nil
	}

	limit := uint32(1)
	resp, err := idx.points.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: idx.collection,
		Limit:          &limit,
		WithPayload:    includeFields(keyModel),
	})
	if err != nil {
		return fmt.Errorf("qdrant: %w: %w", domain.ErrIndexPersistence, err)
	}
	for _, pt := range resp.GetResult() {
		if m := pt.GetPayload()[keyModel].GetStringValue(); m != "" && m != idx.model {
			return fmt.Errorf("qdrant: %w: collection built with %s, embedder is %s",
				domain.ErrIndexMismatch, m, idx.model)
		}
	}
	return nil
}

// Close closes the gRPC connection.
func (idx *Index) Close() error {
	if idx.conn == nil {
		return nil
	}
	return idx.conn.Close()
}

func (idx *Index) scroll(ctx context.Context, fn func(map[string]*pb.Value)) error {
	limit := uint32(scrollPage)
	var offset *pb.PointId
	for {
		resp, err := idx.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: idx.collection,
			Offset:         offset,
			Limit:          &limit,
			WithPayload:    includeFields(keyDocumentID, keyModel),
		})
		if err != nil {
			return fmt.Errorf("qdrant: scroll: %w", err)
		}
		for _, pt := range resp.GetResult() {
			fn(pt.GetPayload())
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			return nil
		}
	}
}

func (idx *Index) payload(s domain.Segment) map[string]*pb.Value {
	return map[string]*pb.Value{
		keySegmentID:  stringValue(s.ID),
		keyDocumentID: stringValue(s.DocumentID),
		keyPage:       intValue(s.Page),
		keyPosition:   intValue(s.Position),
		keyStart:      intValue(s.Start),
		keyEnd:        intValue(s.End),
		keyText:       stringValue(s.Text),
		keyModel:      stringValue(idx.model),
	}
}

func segment(p map[string]*pb.Value) domain.Segment {
	return domain.Segment{
		ID:         p[keySegmentID].GetStringValue(),
		DocumentID: p[keyDocumentID].GetStringValue(),
		Page:       int(p[keyPage].GetIntegerValue()),
		Position:   int(p[keyPosition].GetIntegerValue()),
		Start:      int(p[keyStart].GetIntegerValue()),
		End:        int(p[keyEnd].GetIntegerValue()),
		Text:       p[keyText].GetStringValue(),
	}
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func intValue(n int) *pb.Value {
	return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(n)}}
}

func includeFields(fields ...string) *pb.WithPayloadSelector {
	return &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Include{
		Include: &pb.PayloadIncludeSelector{Fields: fields},
	}}
}

func documentCondition(documentIDs []string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{Field: &pb.FieldCondition{
			Key: keyDocumentID,
			Match: &pb.Match{MatchValue: &pb.Match_Keywords{
				Keywords: &pb.RepeatedStrings{Strings: documentIDs},
			}},
		}},
	}
}

// pointID returns id when it is already a UUID, otherwise a UUID derived from it.
func pointID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/logsmart/designer/pkg/canvas"
	"github.com/logsmart/designer/pkg/errors"
	"github.com/logsmart/designer/pkg/history"
	"github.com/logsmart/designer/pkg/template"
)

// Collection names used by MongoStore.
const (
	TemplatesCollection = "templates"
	VersionsCollection  = "template_versions"
)

// MongoStore keeps templates in MongoDB. Templates live in one collection
// with a unique index on name; each snapshot is a separate document in the
// versions collection keyed by template id and version.
type MongoStore struct {
	client    *mongo.Client
	templates *mongo.Collection
	versions  *mongo.Collection
	now       func() time.Time
}

// versionDoc is a snapshot as stored in the versions collection.
type versionDoc struct {
	TemplateID       string `bson:"template_id"`
	history.Snapshot `bson:",inline"`
}

// NewMongoStore connects to MongoDB and ensures the indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	s := NewMongoStoreWithClient(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStoreWithClient creates a store from an existing client.
func NewMongoStoreWithClient(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		templates: db.Collection(TemplatesCollection),
		versions:  db.Collection(VersionsCollection),
		now:       time.Now,
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.templates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create template name index")
	}
	_, err = s.versions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "template_id", Value: 1}, {Key: "version", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create version index")
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (template.Template, error) {
	t, ok, err := s.get(ctx, id)
	if err != nil {
		return template.Template{}, err
	}
	if !ok {
		return template.Template{}, notFound(id)
	}
	return t, nil
}

func (s *MongoStore) get(ctx context.Context, id string) (template.Template, bool, error) {
	var t template.Template
	err := s.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return template.Template{}, false, nil
	}
	if err != nil {
		return template.Template{}, false, errors.Wrap(errors.ErrCodeNetwork, err, "load template %s", id)
	}
	normalizeLayout(t.Layout)
	return t, true, nil
}

func (s *MongoStore) Save(ctx context.Context, t template.Template) (template.Template, error) {
	if err := validate(t); err != nil {
		return template.Template{}, err
	}

	var prev *template.Template
	if t.ID != "" {
		old, ok, err := s.get(ctx, t.ID)
		if err != nil {
			return template.Template{}, err
		}
		if ok {
			prev = &old
		}
	}
	t = prepare(t, prev, s.now())

	_, err := s.templates.ReplaceOne(ctx, bson.M{"_id": t.ID}, t, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return template.Template{}, conflict(t.Name)
	}
	if err != nil {
		return template.Template{}, errors.Wrap(errors.ErrCodeNetwork, err, "save template %s", t.ID)
	}
	return t, nil
}

func (s *MongoStore) LoadHistory(ctx context.Context, id string) ([]history.Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: 1}})
	cur, err := s.versions.Find(ctx, bson.M{"template_id": id}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load history of %s", id)
	}
	var docs []versionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode history of %s", id)
	}
	snaps := make([]history.Snapshot, len(docs))
	for i, d := range docs {
		normalizeLayout(d.Layout)
		snaps[i] = d.Snapshot
	}
	return snaps, nil
}

func (s *MongoStore) AppendSnapshot(ctx context.Context, id string, snap history.Snapshot) error {
	if _, err := s.versions.InsertOne(ctx, versionDoc{TemplateID: id, Snapshot: snap}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "append history of %s", id)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.templates.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete template %s", id)
	}
	if _, err := s.versions.DeleteMany(ctx, bson.M{"template_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete history of %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.templates.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list templates")
	}
	var all []template.Template
	if err := cur.All(ctx, &all); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode templates")
	}
	out := make([]Summary, len(all))
	for i, t := range all {
		out[i] = summarize(t)
	}
	sortSummaries(out)
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// normalizeLayout converts BSON container types decoded into props back to
// plain maps and slices.
func normalizeLayout(items []canvas.Item) {
	for i := range items {
		if items[i].Props == nil {
			items[i].Props = map[string]any{}
			continue
		}
		for k, v := range items[i].Props {
			items[i].Props[k] = normalizeValue(v)
		}
	}
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = normalizeValue(e)
		}
		return m
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeValue(e)
		}
		return v
	case primitive.A:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		for i, e := range v {
			v[i] = normalizeValue(e)
		}
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}

package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	lock "github.com/square/mongo-lock"

	"github.com/dan13ram/bridge-reactor/models"
)

type Database interface {
	Connect() error
	SetupLocker() error
	SetupIndexes() error
	Disconnect() error

	InsertOne(collection string, data interface{}) error
	FindOne(collection string, filter interface{}, result interface{}) error
	FindMany(collection string, filter interface{}, result interface{}) error
	FindPaginated(collection string, filter interface{}, opts models.FindOptions, result interface{}) error
	CountDocuments(collection string, filter interface{}) (int64, error)
	UpdateOne(collection string, filter interface{}, update interface{}) (int64, error)
	UpsertOne(collection string, filter interface{}, update interface{}) error
	NextSequence(name string) (int64, error)

	XLock(resourceId string) (string, error)
	Unlock(lockId string) error
}

// mongoDatabase is a wrapper around the mongo database
type mongoDatabase struct {
	db       *mongo.Database
	uri      string
	database string
	timeout  time.Duration
	locker   *lock.Client
}

var (
	DB Database
)

func (d *mongoDatabase) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d.timeout)
}

// Connect connects to the database
func (d *mongoDatabase) Connect() error {
	log.Debug("[DB] Connecting to database")
	wcMajority := writeconcern.New(writeconcern.WMajority(), writeconcern.WTimeout(d.timeout))

	ctx, cancel := d.context()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(d.uri).SetWriteConcern(wcMajority))
	if err != nil {
		return err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return err
	}
	d.db = client.Database(d.database)

	log.Info("[DB] Connected to mongo database: ", d.database)
	return nil
}

// SetupLocker sets up the locker
func (d *mongoDatabase) SetupLocker() error {
	log.Debug("[DB] Setting up locker")

	ctx, cancel := d.context()
	defer cancel()

	locker := lock.NewClient(d.db.Collection("locks"))
	if err := locker.CreateIndexes(ctx); err != nil {
		return err
	}
	d.locker = locker

	log.Info("[DB] Locker setup")
	return nil
}

// XLock locks a resource for exclusive access
func (d *mongoDatabase) XLock(resourceId string) (string, error) {
	ctx, cancel := d.context()
	defer cancel()

	lockId := uuid.NewString()
	err := d.locker.XLock(ctx, resourceId, lockId, lock.LockDetails{TTL: 300})
	return lockId, err
}

// Unlock unlocks a resource
func (d *mongoDatabase) Unlock(lockId string) error {
	ctx, cancel := d.context()
	defer cancel()

	_, err := d.locker.Unlock(ctx, lockId)
	return err
}

func (d *mongoDatabase) createIndex(collection string, keys bson.D, unique bool) error {
	ctx, cancel := d.context()
	defer cancel()

	opts := options.Index()
	if unique {
		opts.SetUnique(true)
	}
	_, err := d.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: opts,
	})
	return err
}

// Setup Indexes
func (d *mongoDatabase) SetupIndexes() error {
	log.Debug("[DB] Setting up indexes")

	indexes := []struct {
		collection string
		keys       bson.D
		unique     bool
	}{
		{models.CollectionBridgeTransactions, bson.D{{Key: "source_tx_hash", Value: 1}, {Key: "origin_chain", Value: 1}}, true},
		{models.CollectionBridgeTransactions, bson.D{{Key: "status", Value: 1}, {Key: "origin_chain", Value: 1}}, false},
		{models.CollectionBridgeTransactions, bson.D{{Key: "created_at", Value: -1}}, false},
		{models.CollectionBridgeTransactions, bson.D{{Key: "sender_address", Value: 1}}, false},
		{models.CollectionHealthChecks, bson.D{{Key: "hostname", Value: 1}}, true},
	}

	for _, index := range indexes {
		log.Debug("[DB] Setting up index for ", index.collection)
		if err := d.createIndex(index.collection, index.keys, index.unique); err != nil {
			return err
		}
	}

	log.Info("[DB] Indexes setup")

	return nil
}

// Disconnect disconnects from the database
func (d *mongoDatabase) Disconnect() error {
	log.Debug("[DB] Disconnecting from database")
	ctx, cancel := d.context()
	defer cancel()
	err := d.db.Client().Disconnect(ctx)
	log.Info("[DB] Disconnected from database")
	return err
}

// method for insert single value in a collection
func (d *mongoDatabase) InsertOne(collection string, data interface{}) error {
	ctx, cancel := d.context()
	defer cancel()
	_, err := d.db.Collection(collection).InsertOne(ctx, data)
	return err
}

// method for find single value in a collection
func (d *mongoDatabase) FindOne(collection string, filter interface{}, result interface{}) error {
	ctx, cancel := d.context()
	defer cancel()
	err := d.db.Collection(collection).FindOne(ctx, filter).Decode(result)
	return err
}

// method for find multiple values in a collection
func (d *mongoDatabase) FindMany(collection string, filter interface{}, result interface{}) error {
	ctx, cancel := d.context()
	defer cancel()
	cursor, err := d.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, result)
}

// method for a sorted page of values in a collection
func (d *mongoDatabase) FindPaginated(collection string, filter interface{}, opts models.FindOptions, result interface{}) error {
	ctx, cancel := d.context()
	defer cancel()

	findOpts := options.Find().SetSkip(opts.Skip)
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}

	cursor, err := d.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, result)
}

func (d *mongoDatabase) CountDocuments(collection string, filter interface{}) (int64, error) {
	ctx, cancel := d.context()
	defer cancel()
	return d.db.Collection(collection).CountDocuments(ctx, filter)
}

// method for update single value in a collection, returns the matched count
func (d *mongoDatabase) UpdateOne(collection string, filter interface{}, update interface{}) (int64, error) {
	ctx, cancel := d.context()
	defer cancel()
	result, err := d.db.Collection(collection).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// method for upsert single value in a collection
func (d *mongoDatabase) UpsertOne(collection string, filter interface{}, update interface{}) error {
	ctx, cancel := d.context()
	defer cancel()

	opts := options.Update().SetUpsert(true)
	_, err := d.db.Collection(collection).UpdateOne(ctx, filter, update, opts)
	return err
}

// NextSequence atomically increments and returns the named counter.
func (d *mongoDatabase) NextSequence(name string) (int64, error) {
	ctx, cancel := d.context()
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := d.db.Collection(models.CollectionCounters).FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// InitDB creates a new database wrapper
func InitDB() {
	DB = &mongoDatabase{
		uri:      Config.MongoDB.URI,
		database: Config.MongoDB.Database,
		timeout:  time.Duration(Config.MongoDB.TimeoutMillis) * time.Millisecond,
	}

	err := DB.Connect()
	if err != nil {
		log.Fatal("[DB] Error connecting to database: ", err)
	}
	err = DB.SetupIndexes()
	if err != nil {
		log.Fatal("[DB] Error setting up indexes: ", err)
	}
	err = DB.SetupLocker()
	if err != nil {
		log.Fatal("[DB] Error setting up locker: ", err)
	}
	log.Info("[DB] Database initialized")
}

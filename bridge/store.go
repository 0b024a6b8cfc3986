package bridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dan13ram/bridge-reactor/app"
	"github.com/dan13ram/bridge-reactor/common"
	"github.com/dan13ram/bridge-reactor/models"
)

const (
	TransactionSequence = "bridge_transaction_id"

	DefaultPerPage = 10
	MaxPerPage     = 100
)

// StatusUpdate is a reconciled change to a single record.
type StatusUpdate struct {
	Status            models.TransactionStatus
	DestinationTxHash string
	FinishedAt        *time.Time
}

type Store interface {
	Create(tx *models.BridgeTransaction) error
	FindByID(id int64) (*models.BridgeTransaction, error)
	FindBySourceTxHash(chain models.Chain, sourceTxHash string) (*models.BridgeTransaction, error)
	FindNonTerminal() ([]models.BridgeTransaction, error)
	Filter(filter models.TransactionFilter) (*models.PaginatedTransactions, error)
	// UpdateStatus reports false when no non-terminal record matched id.
	UpdateStatus(id int64, update StatusUpdate) (bool, error)
}

type mongoStore struct {
	db app.Database
}

func NewStore(db app.Database) Store {
	return &mongoStore{db: db}
}

// Create assigns the next id and inserts the record.
func (s *mongoStore) Create(tx *models.BridgeTransaction) error {
	id, err := s.db.NextSequence(TransactionSequence)
	if err != nil {
		return fmt.Errorf("allocating transaction id: %w", err)
	}
	tx.ID = id

	if err := s.db.InsertOne(models.CollectionBridgeTransactions, tx); err != nil {
		return err
	}

	log.WithField("id", tx.ID).WithField("source_tx_hash", tx.SourceTxHash).Debug("[STORE] Created bridge transaction")
	return nil
}

func (s *mongoStore) FindByID(id int64) (*models.BridgeTransaction, error) {
	var tx models.BridgeTransaction
	err := s.db.FindOne(models.CollectionBridgeTransactions, bson.M{"_id": id}, &tx)
	if app.IsNotFound(err) {
		return nil, &common.NotFoundError{Resource: "bridge transaction", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *mongoStore) FindBySourceTxHash(chain models.Chain, sourceTxHash string) (*models.BridgeTransaction, error) {
	var tx models.BridgeTransaction
	filter := bson.M{
		"origin_chain":   chain,
		"source_tx_hash": common.NormalizeTxHash(sourceTxHash),
	}
	err := s.db.FindOne(models.CollectionBridgeTransactions, filter, &tx)
	if app.IsNotFound(err) {
		return nil, &common.NotFoundError{Resource: "bridge transaction", ID: sourceTxHash}
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// FindNonTerminal returns every record still subject to reconciliation.
func (s *mongoStore) FindNonTerminal() ([]models.BridgeTransaction, error) {
	txs := []models.BridgeTransaction{}
	filter := bson.M{
		"status": bson.M{"$nin": models.TerminalStatuses},
	}
	if err := s.db.FindMany(models.CollectionBridgeTransactions, filter, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *mongoStore) UpdateStatus(id int64, update StatusUpdate) (bool, error) {
	set := bson.M{
		"status": update.Status,
	}
	if update.DestinationTxHash != "" {
		set["destination_tx_hash"] = update.DestinationTxHash
	}
	if update.FinishedAt != nil {
		set["finished_at"] = *update.FinishedAt
	}

	// terminal records are never written again
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": models.TerminalStatuses},
	}

	matched, err := s.db.UpdateOne(models.CollectionBridgeTransactions, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

func decimalFilter(amount string) (primitive.Decimal128, error) {
	integer, err := common.ToSmallestUnit(amount, 0)
	if err != nil {
		return primitive.Decimal128{}, err
	}
	return AmountDecimal(integer)
}

// AmountDecimal encodes a normalized integer amount for range queries.
func AmountDecimal(amount string) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(amount)
	if err != nil {
		return primitive.Decimal128{}, common.NewValidationError("amount %q cannot be indexed: %s", amount, err)
	}
	return d, nil
}

func buildFilterQuery(filter models.TransactionFilter) (bson.M, error) {
	query := bson.M{}

	if filter.OriginChain != nil {
		query["origin_chain"] = *filter.OriginChain
	}
	if filter.DestinationChain != nil {
		query["destination_chain"] = *filter.DestinationChain
	}
	if filter.SenderAddress != "" {
		query["sender_address"] = filter.SenderAddress
	}
	if filter.ReceiverAddress != "" {
		query["receiver_addresses"] = filter.ReceiverAddress
	}

	// range bounds are in the bridge unit, the same unit amount_decimal is stored in
	amountRange := bson.M{}
	if filter.AmountFrom != "" {
		from, err := decimalFilter(filter.AmountFrom)
		if err != nil {
			return nil, err
		}
		amountRange["$gte"] = from
	}
	if filter.AmountTo != "" {
		to, err := decimalFilter(filter.AmountTo)
		if err != nil {
			return nil, err
		}
		amountRange["$lte"] = to
	}
	if len(amountRange) > 0 {
		query["amount_decimal"] = amountRange
	}

	return query, nil
}

var sortFields = map[string]string{
	"":          "created_at",
	"createdAt": "created_at",
	"amount":    "amount_decimal",
	"status":    "status",
}

func buildFindOptions(filter models.TransactionFilter) (models.FindOptions, error) {
	field, ok := sortFields[filter.OrderBy]
	if !ok {
		return models.FindOptions{}, common.NewValidationError("cannot order by %q", filter.OrderBy)
	}

	direction := -1
	switch models.SortOrder(strings.ToUpper(string(filter.Order))) {
	case models.SortAsc:
		direction = 1
	case models.SortDesc, "":
	default:
		return models.FindOptions{}, common.NewValidationError("invalid order %q", filter.Order)
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	return models.FindOptions{
		Sort:  bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}},
		Skip:  page * perPage,
		Limit: perPage,
	}, nil
}

func (s *mongoStore) Filter(filter models.TransactionFilter) (*models.PaginatedTransactions, error) {
	query, err := buildFilterQuery(filter)
	if err != nil {
		return nil, err
	}
	opts, err := buildFindOptions(filter)
	if err != nil {
		return nil, err
	}

	total, err := s.db.CountDocuments(models.CollectionBridgeTransactions, query)
	if err != nil {
		return nil, err
	}

	items := []models.BridgeTransaction{}
	if err := s.db.FindPaginated(models.CollectionBridgeTransactions, query, opts, &items); err != nil {
		return nil, err
	}

	return &models.PaginatedTransactions{
		Items:   items,
		Total:   total,
		Page:    opts.Skip / opts.Limit,
		PerPage: opts.Limit,
	}, nil
}

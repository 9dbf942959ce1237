package simulator

import (
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tradesense/tradesense/pkg/api"
	"github.com/tradesense/tradesense/pkg/logger"
)

// Server is the simulated challenge backend. It exposes the same REST
// contract the product's real backend would: start_challenge, account,
// price and trade. Everything lives in memory; restarting the process
// resets the world.
type Server struct {
	market *Market
	ledger *Ledger
	log    *logrus.Entry
}

// New creates a simulator with the default market and an empty ledger.
// rng may be nil; pass a seeded source in tests for determinism.
func New(rng *rand.Rand) *Server {
	return &Server{
		market: NewMarket(rng),
		ledger: NewLedger(rng),
		log:    logger.WithComponent("simulator"),
	}
}

// Router builds the gin handler.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.handleHome)
	r.GET("/api/price/:ticker", s.handlePrice)
	r.POST("/api/start_challenge", s.handleStartChallenge)
	r.GET("/api/account", s.handleAccount)
	r.POST("/api/trade", s.handleTrade)

	return r
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "TradeSense API Ready", "status": "online"})
}

func (s *Server) handlePrice(c *gin.Context) {
	ticker := c.Param("ticker")
	quote, ok := s.market.Quote(ticker)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticker inconnu"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (s *Server) handleStartChallenge(c *gin.Context) {
	challenge := s.ledger.StartChallenge()
	s.log.Info("challenge started")
	balance, _ := challenge.Equity.Float64()
	c.JSON(http.StatusOK, gin.H{"message": "Challenge Démarré !", "balance": balance})
}

func (s *Server) handleAccount(c *gin.Context) {
	challenge := s.ledger.Account()
	if challenge == nil {
		// The client treats a null body as "no update".
		c.JSON(http.StatusOK, nil)
		return
	}
	balance, _ := challenge.Equity.Float64()
	start, _ := challenge.StartBalance.Float64()
	c.JSON(http.StatusOK, gin.H{
		"balance":       balance,
		"start_balance": start,
		"status":        challenge.Status,
	})
}

func (s *Server) handleTrade(c *gin.Context) {
	var req api.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	quote, ok := s.market.Quote(req.Ticker)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Marché fermé"})
		return
	}

	trade, challenge, err := s.ledger.ExecuteTrade(req.Ticker, req.Type, req.Amount, quote.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.log.WithFields(logrus.Fields{
		"trade_id": trade.ID,
		"ticker":   trade.Ticker,
		"side":     trade.Side,
		"profit":   trade.Profit.StringFixed(2),
	}).Info("trade executed")

	balance, _ := challenge.Equity.Float64()
	c.JSON(http.StatusOK, gin.H{
		"message":     "Ordre exécuté",
		"new_balance": balance,
		"status":      challenge.Status,
	})
}

package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/valais-ski/fis-inscriptions-api/docs"
	v1 "github.com/valais-ski/fis-inscriptions-api/internal/api/handler/v1"
	"github.com/valais-ski/fis-inscriptions-api/internal/api/middleware"
	"github.com/valais-ski/fis-inscriptions-api/internal/config"
	"github.com/valais-ski/fis-inscriptions-api/internal/domain"
	"github.com/valais-ski/fis-inscriptions-api/internal/fisapi"
	"github.com/valais-ski/fis-inscriptions-api/internal/mailer"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository"
	"github.com/valais-ski/fis-inscriptions-api/internal/repository/dao"
	"github.com/valais-ski/fis-inscriptions-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	authHandler := s.initAuthHandler(db)
	inscriptionHandler, emailHandler := s.initInscriptionHandlers(db, userSvc)
	competitorHandler := s.initCompetitorHandler(db)
	organizationHandler := s.initOrganizationHandler(db)
	adminHandler := s.initAdminHandler(db, userSvc)

	s.MountHandlers(userSvc, authHandler, inscriptionHandler, emailHandler,
		competitorHandler, organizationHandler, adminHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	repo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initInscriptionHandlers(db *gorm.DB, userSvc *service.UserService) (*v1.InscriptionHandler, *v1.EmailHandler) {
	repo := repository.NewInscriptionRepository(dao.NewInscriptionDAO(db))
	orgRepo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	competitorRepo := repository.NewCompetitorRepository(dao.NewCompetitorDAO(db))
	events := fisapi.NewClient(s.Config.FIS)
	emails := mailer.New(s.Config.Email)

	svc := service.NewInscriptionService(repo, orgRepo, competitorRepo, events, emails, s.Config.API.OrganizationCode)

	return v1.NewInscriptionHandler(svc, userSvc), v1.NewEmailHandler(svc, userSvc)
}

func (s *Server) initCompetitorHandler(db *gorm.DB) *v1.CompetitorHandler {
	repo := repository.NewCompetitorRepository(dao.NewCompetitorDAO(db))
	inscriptionRepo := repository.NewInscriptionRepository(dao.NewInscriptionDAO(db))
	svc := service.NewCompetitorService(repo, inscriptionRepo)
	handler := v1.NewCompetitorHandler(svc)

	return handler
}

func (s *Server) initOrganizationHandler(db *gorm.DB) *v1.OrganizationHandler {
	repo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	svc := service.NewOrganizationService(repo)
	handler := v1.NewOrganizationHandler(svc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB, userSvc *service.UserService) *v1.AdminHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	inscriptionRepo := repository.NewInscriptionRepository(dao.NewInscriptionDAO(db))
	svc := service.NewAdminService(userRepo, inscriptionRepo)
	handler := v1.NewAdminHandler(svc, userSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	userSvc middleware.AuthorizerUserService,
	authHandler *v1.AuthHandler,
	inscriptionHandler *v1.InscriptionHandler,
	emailHandler *v1.EmailHandler,
	competitorHandler *v1.CompetitorHandler,
	organizationHandler *v1.OrganizationHandler,
	adminHandler *v1.AdminHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	authorizer := middleware.NewAuthorizer(userSvc)

	public := s.Router.Group(basePath)
	{
		public.GET("/healthcheck", v1.HandleHealthcheck)
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/inscriptions", inscriptionHandler.HandleListInscriptions)
		public.GET("/inscriptions/:inscriptionID", inscriptionHandler.HandleGetInscription)
		public.GET("/competitors", competitorHandler.HandleSearchCompetitors)
		public.GET("/competitors/:competitorID/inscriptions", competitorHandler.HandleListCompetitorInscriptions)
		public.POST("/codex/check", inscriptionHandler.HandleCheckCodex)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.POST("/inscriptions", inscriptionHandler.HandleCreateInscription)
		authed.PATCH("/inscriptions/:inscriptionID/status", inscriptionHandler.HandleUpdateStatus)
		authed.POST("/inscriptions/:inscriptionID/cancel", inscriptionHandler.HandleCancelInscription)
		authed.DELETE("/inscriptions/:inscriptionID", inscriptionHandler.HandleDeleteInscription)
		authed.GET("/inscriptions/:inscriptionID/event-data/diff", inscriptionHandler.HandleDiffEventData)
		authed.PUT("/inscriptions/:inscriptionID/event-data", inscriptionHandler.HandleApplyEventData)

		authed.GET("/inscriptions/:inscriptionID/coaches", inscriptionHandler.HandleListCoaches)
		authed.POST("/inscriptions/:inscriptionID/coaches", inscriptionHandler.HandleAddCoach)
		authed.DELETE("/inscriptions/:inscriptionID/coaches/:coachID", inscriptionHandler.HandleRemoveCoach)

		authed.POST("/inscriptions/:inscriptionID/save-competitors", inscriptionHandler.HandleSaveCompetitors)
		authed.GET("/inscriptions/:inscriptionID/competitors", inscriptionHandler.HandleListInscriptionCompetitors)

		authed.POST("/contact-inscription", inscriptionHandler.HandleContactInscription)
		authed.POST("/send-inscription-pdf", emailHandler.HandleSendInscriptionPDF)
	}

	superAdmin := s.Router.Group(basePath, authenticator.VerifyJWT(), authorizer.RequireRole(domain.RoleSuperAdmin))
	{
		superAdmin.GET("/organizations/:code", organizationHandler.HandleGetOrganization)
		superAdmin.PATCH("/organizations/:code", organizationHandler.HandleUpdateOrganization)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT(), authorizer.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/users", adminHandler.HandleListUsers)
		admin.PATCH("/users/:userID", adminHandler.HandleUpdateUser)
		admin.DELETE("/users/:userID", adminHandler.HandleDeleteUser)
		admin.PATCH("/users/:userID/role", adminHandler.HandleUpdateRole)
		admin.GET("/users/:userID/activity", adminHandler.HandleUserActivity)

		admin.POST("/inscriptions/:inscriptionID/restore", inscriptionHandler.HandleRestoreInscription)
		admin.PATCH("/inscriptions/:inscriptionID/rollback-status", inscriptionHandler.HandleRollbackStatus)
		admin.POST("/competitors/import", competitorHandler.HandleImportCompetitors)
	}

	docs.SwaggerInfo.BasePath = basePath
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/rkmmedclinic/clinic-backend-go/internal/config"
	appHTTP "github.com/rkmmedclinic/clinic-backend-go/internal/handler/http"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/database"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/email"
	"github.com/rkmmedclinic/clinic-backend-go/internal/pkg/jwt"
	"github.com/rkmmedclinic/clinic-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/rkmmedclinic/clinic-backend-go/internal/service/auth"
	serviceDirectory "github.com/rkmmedclinic/clinic-backend-go/internal/service/directory"
	"github.com/rkmmedclinic/clinic-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	doctorRepo := postgresql.NewDoctorRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notifier, err := email.NewSMTPNotifier(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email notifier:", err)
	}

	directoryService := serviceDirectory.NewDirectoryService(staffRepo, doctorRepo, userRepo)
	authService := serviceAuth.NewAuthService(userRepo, jwtService)

	typeService := leave.NewTypeService(leaveTypeRepo)
	balanceService := leave.NewBalanceService(leaveBalanceRepo, leaveTypeRepo)
	requestService := leave.NewRequestService(transactor, leaveTypeRepo, leaveRequestRepo, balanceService, directoryService)
	leaveService := leave.NewLeaveService(typeService, balanceService, requestService, leaveRequestRepo, directoryService, notifier)

	authHandler := appHTTP.NewAuthHandler(authService)
	leaveHandler := appHTTP.NewLeaveHandler(leaveService)

	router := appHTTP.NewRouter(cfg, jwtService, authHandler, leaveHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"flavorfeed/internal/database"
	"flavorfeed/internal/events"
	"flavorfeed/internal/middleware"
	"flavorfeed/internal/modules/auth"
	"flavorfeed/internal/modules/feed"
	"flavorfeed/internal/modules/friendship"
	"flavorfeed/internal/modules/notification"
	"flavorfeed/internal/modules/post"
	"flavorfeed/internal/modules/restaurant"
	jwtsvc "flavorfeed/internal/pkg/jwt"
	"flavorfeed/internal/pkg/response"
	"flavorfeed/internal/realtime"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := database.Migrate(db,
		&auth.User{},
		&restaurant.Restaurant{},
		&friendship.Friendship{},
		&post.Post{},
		&post.PostLike{},
		&post.PostComment{},
		&feed.Checkin{},
		&feed.ReservationPlan{},
		&notification.Notification{},
		&notification.Preferences{},
		&notification.DeviceToken{},
	); err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(secret, 24*time.Hour)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, j)
	authHandler := auth.NewHandler(authService)

	users := &userDirectory{repo: authRepo}
	restaurants := restaurant.NewDirectory(db)

	bus := events.NewBus()

	notifRepo := notification.NewRepository(db)
	registry := notification.NewRegistry()
	transport := notification.NewLogTransport(notifRepo)
	dispatcher := notification.NewDispatcher(notifRepo, registry, transport, bus)
	notifService := notification.NewService(notifRepo, registry)
	notifHandler := notification.NewHandler(notifService, dispatcher)

	friendRepo := friendship.NewRepository(db)
	friendService := friendship.NewService(friendRepo, users, dispatcher)
	friendHandler := friendship.NewHandler(friendService)

	postRepo := post.NewRepository(db)
	postService := post.NewService(postRepo, users, restaurants, dispatcher)
	postHandler := post.NewHandler(postService)

	feedRepo := feed.NewRepository(db)
	feedService := feed.NewService(feedRepo, friendService)
	feedHandler := feed.NewHandler(feedService)

	hub := realtime.NewHub()
	stream, cancel := bus.Subscribe(256)
	defer cancel()
	go hub.Run(stream)

	r := gin.New()
	r.Use(middleware.Logger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			friendHandler.RegisterRoutes(protected)
			postHandler.RegisterRoutes(protected)
			feedHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	ws := r.Group("/ws")
	ws.Use(middleware.Auth(j))
	ws.GET("", func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
			return
		}
		if err := hub.Upgrade(c.Writer, c.Request, userID); err != nil {
			c.Error(err)
		}
	})

	log.Println("API listening on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// userDirectory adapts the auth repository to the directory interfaces the
// friendship and post services consume.
type userDirectory struct {
	repo auth.Repository
}

func (d *userDirectory) ProfilesByID(ctx context.Context, ids []int64) (map[int64]friendship.UserProfile, error) {
	users, err := d.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles := make(map[int64]friendship.UserProfile, len(users))
	for _, u := range users {
		profiles[u.ID] = friendship.UserProfile{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		}
	}
	return profiles, nil
}

func (d *userDirectory) UsernameByID(ctx context.Context, id int64) (string, error) {
	u, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

package prompt

// SampleReviews is a small batch used to try the dashboard without data.
// Reviews are separated by "---"; the model infers the boundaries.
const SampleReviews = `I absolutely love the new design of the app! It's so sleek and modern. However, the loading times are atrocious. I waited 10 seconds just to open my profile. Fix this!
---
Great customer service. I called about a billing issue and Sarah resolved it in 5 minutes. Very happy.
---
The product arrived damaged. The box was crushed. I'm requesting a refund immediately. This is unacceptable shipping quality.
---
Why did you remove the dark mode? My eyes hurt using this at night. Please bring it back.
---
Best purchase I've made all year. The quality is top notch and it fits perfectly. Highly recommend to everyone.
---
I'm cancelling my subscription. The price hike is not justified for the features you offer. Goodbye.
---
The new update is buggy. It crashes every time I try to upload a photo. Please patch this ASAP.
---
Surprised by how fast the delivery was! ordered yesterday and it's here today. Kudos to the logistics team.`
